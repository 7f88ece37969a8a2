package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"aj-fitness/internal/model"
	"aj-fitness/internal/repository"
)

var (
	memberHeaders = []string{"ID", "Name", "Phone", "Start Date", "End Date", "Total Fee Paid"}
	feeHeaders    = []string{"ID", "Member ID", "Amount", "Date"}
)

// ExportService 导出业务接口
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	MembersCSV(ctx context.Context) (*bytes.Buffer, error)
	FeesCSV(ctx context.Context) (*bytes.Buffer, error)
	// Workbook 导出包含 Members 与 Fees 两个 Sheet 的 Excel 文件
	Workbook(ctx context.Context) (*bytes.Buffer, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── CSV ──────────────────────

func (s *exportService) MembersCSV(ctx context.Context) (*bytes.Buffer, error) {
	rows, err := s.memberRows(ctx)
	if err != nil {
		return nil, err
	}
	return writeCSV(memberHeaders, rows)
}

func (s *exportService) FeesCSV(ctx context.Context) (*bytes.Buffer, error) {
	rows, err := s.feeRows(ctx)
	if err != nil {
		return nil, err
	}
	return writeCSV(feeHeaders, rows)
}

func writeCSV(headers []string, rows [][]string) (*bytes.Buffer, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf, nil
}

// ────────────────────── Excel ──────────────────────

func (s *exportService) Workbook(ctx context.Context) (*bytes.Buffer, error) {
	memberRows, err := s.memberRows(ctx)
	if err != nil {
		return nil, err
	}
	feeRows, err := s.feeRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}

	// 默认 Sheet1 重命名为 Members
	if err := f.SetSheetName("Sheet1", "Members"); err != nil {
		return nil, err
	}
	if err := fillSheet(f, "Members", memberHeaders, memberRows, headerStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Fees"); err != nil {
		return nil, err
	}
	if err := fillSheet(f, "Fees", feeHeaders, feeRows, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 文件失败", zap.Error(err))
		return nil, err
	}
	return buf, nil
}

func fillSheet(f *excelize.File, sheet string, headers []string, rows [][]string, headerStyle int) error {
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

// ── 数据行 ──

func (s *exportService) memberRows(ctx context.Context) ([][]string, error) {
	members, err := s.repo.Member.List(ctx, "")
	if err != nil {
		s.logger.Error("导出会员失败", zap.Error(err))
		return nil, err
	}

	rows := make([][]string, 0, len(members))
	for i := range members {
		total, err := s.repo.Fee.TotalByMember(ctx, members[i].ID)
		if err != nil {
			s.logger.Error("统计缴费总额失败", zap.Int64("member_id", members[i].ID), zap.Error(err))
			return nil, err
		}
		rows = append(rows, memberRow(&members[i], total))
	}
	return rows, nil
}

func (s *exportService) feeRows(ctx context.Context) ([][]string, error) {
	fees, err := s.repo.Fee.ListAll(ctx)
	if err != nil {
		s.logger.Error("导出缴费记录失败", zap.Error(err))
		return nil, err
	}

	rows := make([][]string, 0, len(fees))
	for i := range fees {
		rows = append(rows, []string{
			fmt.Sprint(fees[i].ID),
			fmt.Sprint(fees[i].MemberID),
			fees[i].Amount.StringFixed(2),
			fees[i].Date.String(),
		})
	}
	return rows, nil
}

func memberRow(m *model.Member, total decimal.Decimal) []string {
	return []string{
		fmt.Sprint(m.ID),
		m.Name,
		m.Phone,
		m.StartDate.String(),
		m.EndDate.String(),
		total.StringFixed(2),
	}
}
