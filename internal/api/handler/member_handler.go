package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"aj-fitness/internal/dto"
	"aj-fitness/internal/service"
	"aj-fitness/pkg/response"
	"aj-fitness/pkg/storage"
)

// MemberHandler 会员与缴费 HTTP 处理器
type MemberHandler struct {
	memberSvc service.MemberService
	photos    *storage.PhotoStore
}

// NewMemberHandler 创建 MemberHandler
func NewMemberHandler(memberSvc service.MemberService, photos *storage.PhotoStore) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc, photos: photos}
}

// ListMembers 会员列表
// GET /api/v1/members?search=
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var req dto.MemberListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	members, err := h.memberSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleMemberError(c, err)
		return
	}

	response.OK(c, members)
}

// GetMember 会员详情（含状态与缴费总额）
// GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.memberSvc.Get(c.Request.Context(), id)
	if err != nil {
		handleMemberError(c, err)
		return
	}

	response.OK(c, detail)
}

// CreateMember 新增会员，支持 JSON 或 multipart（可附 photo 文件）
// POST /api/v1/members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	photo, ok := h.savePhoto(c)
	if !ok {
		return
	}
	req.Photo = photo

	result, err := h.memberSvc.Create(c.Request.Context(), &req)
	if err != nil {
		if photo != nil {
			_ = h.photos.Remove(*photo)
		}
		handleMemberError(c, err)
		return
	}

	response.Created(c, result)
}

// DeleteMember 删除会员及其缴费记录；会员不存在时同样返回成功
// DELETE /api/v1/members/:id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	if err := h.memberSvc.Delete(c.Request.Context(), id); err != nil {
		handleMemberError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListFees 会员缴费历史
// GET /api/v1/members/:id/fees
func (h *MemberHandler) ListFees(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	history, err := h.memberSvc.FeeHistory(c.Request.Context(), id)
	if err != nil {
		handleMemberError(c, err)
		return
	}

	response.OK(c, history)
}

// RecordFee 记录缴费
// POST /api/v1/members/:id/fees
func (h *MemberHandler) RecordFee(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordFeeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	fee, err := h.memberSvc.RecordFee(c.Request.Context(), id, &req)
	if err != nil {
		handleMemberError(c, err)
		return
	}

	response.Created(c, fee)
}

// GetReceipt 缴费收据
// GET /api/v1/fees/:id/receipt
func (h *MemberHandler) GetReceipt(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.memberSvc.Receipt(c.Request.Context(), id)
	if err != nil {
		handleMemberError(c, err)
		return
	}

	response.OK(c, receipt)
}

// savePhoto 保存 multipart 中的 photo 文件；未上传时返回 nil
func (h *MemberHandler) savePhoto(c *gin.Context) (*string, bool) {
	if h.photos == nil || !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, true
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		response.BadRequest(c, 10001, "照片读取失败")
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10001, "照片读取失败")
		return nil, false
	}
	defer f.Close()

	name, err := h.photos.Save(fh.Filename, f)
	switch {
	case err == nil:
		return &name, true
	case errors.Is(err, storage.ErrPhotoType):
		response.BadRequest(c, 10001, "仅支持 jpg/png/gif/webp 格式的照片")
	case errors.Is(err, storage.ErrPhotoTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "照片文件过大")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
	return nil, false
}
