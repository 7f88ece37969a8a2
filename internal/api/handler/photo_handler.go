package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"aj-fitness/pkg/response"
	"aj-fitness/pkg/storage"
)

// PhotoHandler 会员照片 HTTP 处理器
type PhotoHandler struct {
	photos *storage.PhotoStore
}

// NewPhotoHandler 创建 PhotoHandler
func NewPhotoHandler(photos *storage.PhotoStore) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// GetPhoto 读取照片文件
// GET /api/v1/photos/:name
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	path, err := h.photos.Path(c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidPhotoName):
			response.BadRequest(c, 10001, "非法的照片文件名")
		case errors.Is(err, storage.ErrPhotoNotFound):
			response.NotFound(c, 20003, "照片不存在")
		default:
			_ = c.Error(err)
			response.InternalError(c)
		}
		return
	}

	c.File(path)
}
