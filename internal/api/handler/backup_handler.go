package handler

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"aj-fitness/internal/service"
	"aj-fitness/pkg/database"
	"aj-fitness/pkg/response"
)

// BackupHandler 数据库备份 HTTP 处理器
type BackupHandler struct {
	backupSvc service.BackupService
}

// NewBackupHandler 创建 BackupHandler
func NewBackupHandler(backupSvc service.BackupService) *BackupHandler {
	return &BackupHandler{backupSvc: backupSvc}
}

// Download 生成备份并以附件形式返回
// GET /api/v1/backup
func (h *BackupHandler) Download(c *gin.Context) {
	path, err := h.backupSvc.Snapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, database.ErrBackupUnsupported) {
			response.Error(c, http.StatusNotImplemented, 30001, "当前数据库不支持文件备份")
			return
		}
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}
