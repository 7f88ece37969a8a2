package dto

// ── 认证模块 DTO ──

// LoginRequest 操作员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 会话 Token 响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // 秒
	Operator    string `json:"operator"`
}
