package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"aj-fitness/internal/service"
	"aj-fitness/pkg/response"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportMembersCSV 导出会员 CSV
// GET /api/v1/export/members.csv
func (h *ExportHandler) ExportMembersCSV(c *gin.Context) {
	h.download(c, "members.csv", contentTypeCSV, h.exportSvc.MembersCSV)
}

// ExportFeesCSV 导出缴费记录 CSV
// GET /api/v1/export/fees.csv
func (h *ExportHandler) ExportFeesCSV(c *gin.Context) {
	h.download(c, "fees.csv", contentTypeCSV, h.exportSvc.FeesCSV)
}

// ExportWorkbook 导出 Excel（Members + Fees 两个 Sheet）
// GET /api/v1/export/members.xlsx
func (h *ExportHandler) ExportWorkbook(c *gin.Context) {
	h.download(c, "members.xlsx", contentTypeXLSX, h.exportSvc.Workbook)
}

func (h *ExportHandler) download(c *gin.Context, filename, contentType string, build func(context.Context) (*bytes.Buffer, error)) {
	buf, err := build(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
