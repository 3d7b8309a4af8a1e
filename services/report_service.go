package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/utils"
)

var attendanceHeader = []string{"Employee ID", "Name", "Date", "Status", "Clock In", "Clock Out", "Task", "Approval"}

// ReportService renders monthly attendance exports.
type ReportService struct {
	attendance *AttendanceService
}

func NewReportService(attendance *AttendanceService) *ReportService {
	return &ReportService{attendance: attendance}
}

// attendanceRows flattens rows into display strings in each employee's zone.
func (s *ReportService) attendanceRows(rows []models.Attendance) [][]string {
	out := make([][]string, 0, len(rows))
	for _, a := range rows {
		loc := s.attendance.loc
		code, name := "", ""
		if a.Employee != nil {
			loc = s.attendance.zoneFor(*a.Employee)
			code, name = a.Employee.EmployeeCode, a.Employee.Name
		}
		task := ""
		if a.TaskID != nil {
			task = fmt.Sprintf("#%d", *a.TaskID)
		}
		out = append(out, []string{
			code,
			name,
			a.Date.In(loc).Format("2006-01-02"),
			a.Status,
			clockString(a.ClockIn, loc),
			clockString(a.ClockOut, loc),
			task,
			a.ApprovalStatus,
		})
	}
	return out
}

func clockString(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return utils.FormatClock(*t, loc)
}

// AttendanceXLSX builds the month's attendance workbook.
func (s *ReportService) AttendanceXLSX(year int, month time.Month) ([]byte, error) {
	rows, err := s.attendance.ListMonth(year, month)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range attendanceHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, values := range s.attendanceRows(rows) {
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "H", 12)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "H1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// AttendancePDF builds the month's attendance as a landscape table.
func (s *ReportService) AttendancePDF(year int, month time.Month) ([]byte, error) {
	rows, err := s.attendance.ListMonth(year, month)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Attendance %04d-%02d", year, int(month)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Attendance report - %s %d", month.String(), year), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{28, 60, 26, 26, 22, 22, 20, 30}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(31, 41, 55)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range attendanceHeader {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, values := range s.attendanceRows(rows) {
		for i, v := range values {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(rows) == 0 {
		pdf.CellFormat(0, 8, "No attendance recorded.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
