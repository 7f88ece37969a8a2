package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aj-fitness/pkg/response"
)

// BodyLimit 请求体大小限制中间件（含照片上传的 multipart 请求）
// 声明的 Content-Length 超限时直接拒绝，否则用 MaxBytesReader 兜底
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
