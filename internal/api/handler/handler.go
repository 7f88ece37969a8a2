package handler

import (
	"aj-fitness/internal/service"
	"aj-fitness/pkg/storage"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Member    *MemberHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
	Backup    *BackupHandler
	Photo     *PhotoHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, photos *storage.PhotoStore) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Member:    NewMemberHandler(svc.Member, photos),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Export:    NewExportHandler(svc.Export),
		Backup:    NewBackupHandler(svc.Backup),
		Photo:     NewPhotoHandler(photos),
	}
}
