package exam

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportResultsExcel renders the results of one exam into an xlsx workbook.
func (s *Service) ExportResultsExcel(ctx context.Context, examID int) ([]byte, error) {
	if _, err := s.ExamByID(ctx, examID); err != nil {
		return nil, err
	}
	results, err := s.ResultsByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"resultId", "studentId", "studentName", "studentEmail", "score", "totalMarks", "percentage", "submittedAt"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, res := range results {
		row := i + 2
		values := []any{
			res.ResultID,
			res.StudentID,
			res.StudentName,
			res.StudentEmail,
			res.Score,
			res.TotalMarks,
			res.Percentage,
			res.SubmittedAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "H", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
