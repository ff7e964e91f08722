package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mews-mentor/backend/internal/model"
	"mews-mentor/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoMatches    = errors.New("该辅导周期暂无匹配记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 匹配记录导出为 Excel (.xlsx)，供线下评审与归档
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：Sheet "匹配结果" 一行一学员，Sheet "导师容量" 一行一导师
type ExportService interface {
	// ExportMatches 导出匹配记录为 Excel
	ExportMatches(ctx context.Context, cohortID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportMatches — 导出匹配记录为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "匹配结果": | 学员 | 状态 | 指派导师 | 候选1 | 分数1 | 理由1 | 候选2 | ... |
//   - Sheet "导师容量": | 导师 | 名义容量 | 已批准 | 剩余 |
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportMatches(ctx context.Context, cohortID string) (*bytes.Buffer, string, error) {
	// 1. 查询周期与匹配记录
	cohort, err := s.repo.Cohort.GetByID(ctx, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCohortNotFound
		}
		s.logger.Error("查询辅导周期失败", zap.Error(err))
		return nil, "", err
	}
	if len(cohort.Matches.Results) == 0 {
		return nil, "", ErrExportNoMatches
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	matchSheet := "匹配结果"
	idx, _ := f.NewSheet(matchSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 候选列数取所有学员中的最大值
	maxCandidates := 0
	for _, r := range cohort.Matches.Results {
		if len(r.Recommendations) > maxCandidates {
			maxCandidates = len(r.Recommendations)
		}
	}

	// 列宽
	f.SetColWidth(matchSheet, "A", "A", 16)
	f.SetColWidth(matchSheet, "B", "B", 8)
	f.SetColWidth(matchSheet, "C", "C", 16)
	for i := 0; i < maxCandidates*3; i++ {
		col, _ := excelize.ColumnNumberToName(4 + i)
		f.SetColWidth(matchSheet, col, col, 20)
	}

	// 标题行
	f.SetCellValue(matchSheet, "A1", fmt.Sprintf("%s — 匹配结果", cohort.Name))
	f.MergeCell(matchSheet, "A1", cell(colName(2+maxCandidates*3), 1))
	f.SetCellStyle(matchSheet, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(matchSheet, cell("A", row), "学员")
	f.SetCellValue(matchSheet, cell("B", row), "状态")
	f.SetCellValue(matchSheet, cell("C", row), "指派导师")
	for i := 0; i < maxCandidates; i++ {
		f.SetCellValue(matchSheet, cell(colName(3+i*3), row), fmt.Sprintf("候选%d", i+1))
		f.SetCellValue(matchSheet, cell(colName(4+i*3), row), fmt.Sprintf("分数%d", i+1))
		f.SetCellValue(matchSheet, cell(colName(5+i*3), row), fmt.Sprintf("理由%d", i+1))
	}

	// 数据行
	row = 3
	for _, r := range cohort.Matches.Results {
		f.SetCellValue(matchSheet, cell("A", row), r.MenteeName)
		if r.Approved() {
			f.SetCellValue(matchSheet, cell("B", row), "已批准")
			f.SetCellValue(matchSheet, cell("C", row), r.ProposedAssignment.MentorName)
		} else {
			f.SetCellValue(matchSheet, cell("B", row), "待定")
			f.SetCellValue(matchSheet, cell("C", row), "-")
		}
		for i, c := range r.Recommendations {
			f.SetCellValue(matchSheet, cell(colName(3+i*3), row), c.MentorName)
			f.SetCellValue(matchSheet, cell(colName(4+i*3), row), fmt.Sprintf("%.1f", c.Score.TotalScore))
			f.SetCellValue(matchSheet, cell(colName(5+i*3), row), strings.Join(c.Score.Reasons, "; "))
		}
		row++
	}

	// 3. 导师容量 Sheet
	capSheet := "导师容量"
	f.NewSheet(capSheet)
	f.SetColWidth(capSheet, "A", "A", 16)
	f.SetColWidth(capSheet, "B", "D", 10)

	f.SetCellValue(capSheet, "A1", "导师")
	f.SetCellValue(capSheet, "B1", "名义容量")
	f.SetCellValue(capSheet, "C1", "已批准")
	f.SetCellValue(capSheet, "D1", "剩余")

	approved := cohort.Matches.ApprovedCounts()
	capRow := 2
	for i := range cohort.Participants {
		p := &cohort.Participants[i]
		if p.Role != model.RoleMentor {
			continue
		}
		f.SetCellValue(capSheet, cell("A", capRow), p.Name)
		f.SetCellValue(capSheet, cell("B", capRow), p.CapacityRemaining)
		f.SetCellValue(capSheet, cell("C", capRow), approved[p.ParticipantID])
		f.SetCellValue(capSheet, cell("D", capRow), EffectiveRemainingCapacity(p, approved, nil))
		capRow++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("匹配结果_%s.xlsx", cohort.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
