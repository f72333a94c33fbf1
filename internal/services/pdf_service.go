package services

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
	"github.com/deep4kk/MERN-STACK-FMS/internal/utils"

	"github.com/jung-kurt/gofpdf/v2"
)

// page geometry in mm (A4 portrait, 15mm side margins)
const (
	pdfLeft       = 15.0
	pdfRight      = 195.0
	pdfTableWidth = 180.0
	pdfRowHeight  = 7.0
)

// PDFService renders MIS reports as printable PDFs
type PDFService struct {
	now func() time.Time
}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{now: time.Now}
}

// pdfTable is a titled grid; the first column is left aligned, the rest centered
type pdfTable struct {
	title   string
	headers []string
	widths  []float64
	rows    [][]string
}

// GenerateMISReportPDF renders report as a PDF document
func (s *PDFService) GenerateMISReportPDF(report *models.MISReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("invalid report data")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfLeft, 20, pdfLeft)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("{nb}")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(108, 117, 125)
		pdf.SetX(pdfLeft)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 102, 204)
	pdf.CellFormat(0, 20, "MIS Report", "", 0, "C", false, 0, "")
	pdf.Ln(14)
	pdf.SetFont("Arial", "", 14)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s %d", utils.MonthName(report.Period.Month), report.Period.Year), "", 0, "C", false, 0, "")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", utils.FormatDate(s.now())), "", 0, "C", false, 0, "")
	pdf.Ln(12)

	for _, table := range misReportTables(report) {
		s.addTable(pdf, tr, table)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// misReportTables lays the report out as the tables printed in the PDF
func misReportTables(report *models.MISReport) []pdfTable {
	tasks, fms, checklists, tickets := report.Tasks, report.FMS, report.Checklists, report.HelpTickets

	tables := []pdfTable{{
		title:   "Overview",
		headers: []string{"Module", "Total", "Done", "Open"},
		widths:  []float64{75, 35, 35, 35},
		rows: [][]string{
			{"Tasks", itoa(tasks.Total), itoa(tasks.ByStatus.Count(models.TaskStatusCompleted)), itoa(tasks.Total - tasks.ByStatus.Count(models.TaskStatusCompleted))},
			{"FMS projects", itoa(fms.Total), itoa(fms.Completed), itoa(fms.Total - fms.Completed)},
			{"Checklists", itoa(checklists.Total), itoa(checklists.Done), itoa(checklists.NotDone)},
			{"Help tickets", itoa(tickets.Total), itoa(tickets.Closed), itoa(tickets.Total - tickets.Closed)},
		},
	}}

	statusRows := [][]string{}
	for _, key := range tasks.ByStatus.Keys() {
		statusRows = append(statusRows, []string{key, itoa(tasks.ByStatus.Count(key))})
	}
	typeRows := [][]string{}
	for _, key := range tasks.ByType.Keys() {
		typeRows = append(typeRows, []string{key, itoa(tasks.ByType.Count(key))})
	}
	tables = append(tables,
		pdfTable{title: "Tasks by status", headers: []string{"Status", "Count"}, widths: []float64{120, 60}, rows: statusRows},
		pdfTable{title: "Tasks by type", headers: []string{"Type", "Count"}, widths: []float64{120, 60}, rows: typeRows},
	)

	taskPeople := [][]string{}
	for _, p := range tasks.ByPerson {
		taskPeople = append(taskPeople, []string{p.Username, itoa(p.Total), itoa(p.Pending), itoa(p.InProgress), itoa(p.Completed), itoa(p.Overdue)})
	}
	tables = append(tables, pdfTable{
		title:   "Tasks by person",
		headers: []string{"Person", "Total", "Pending", "In progress", "Completed", "Overdue"},
		widths:  []float64{55, 25, 25, 25, 25, 25},
		rows:    taskPeople,
	})

	fmsPeople := [][]string{}
	for _, p := range fms.ByPerson {
		fmsPeople = append(fmsPeople, []string{p.Username, itoa(p.Total), itoa(p.InProgress), itoa(p.Completed), joinInts(p.PendingSteps)})
	}
	tables = append(tables, pdfTable{
		title:   "FMS steps by person",
		headers: []string{"Person", "Steps", "In progress", "Done", "Pending steps"},
		widths:  []float64{55, 25, 25, 25, 50},
		rows:    fmsPeople,
	})

	stepKeys := make([]string, 0, len(fms.StepStatusBreakdown))
	for k := range fms.StepStatusBreakdown {
		stepKeys = append(stepKeys, k)
	}
	sort.Slice(stepKeys, func(i, j int) bool {
		a, _ := strconv.Atoi(stepKeys[i])
		b, _ := strconv.Atoi(stepKeys[j])
		return a < b
	})
	stepRows := [][]string{}
	for _, k := range stepKeys {
		stepRows = append(stepRows, []string{"Step " + k, itoa(fms.StepStatusBreakdown[k])})
	}
	tables = append(tables, pdfTable{
		title:   "FMS projects waiting at step",
		headers: []string{"Step", "Projects"},
		widths:  []float64{120, 60},
		rows:    stepRows,
	})

	checklistPeople := [][]string{}
	for _, p := range checklists.ByPerson {
		checklistPeople = append(checklistPeople, []string{p.Username, itoa(p.Total), itoa(p.Done), itoa(p.NotDone)})
	}
	tables = append(tables, pdfTable{
		title:   "Checklists by person",
		headers: []string{"Person", "Total", "Submitted", "Not submitted"},
		widths:  []float64{75, 35, 35, 35},
		rows:    checklistPeople,
	})

	ticketPeople := [][]string{}
	for _, p := range tickets.ByPerson {
		ticketPeople = append(ticketPeople, []string{p.Username, itoa(p.Total), itoa(p.Open), itoa(p.InProgress), itoa(p.Closed)})
	}
	tables = append(tables, pdfTable{
		title:   "Help tickets by person",
		headers: []string{"Person", "Total", "Open", "In progress", "Closed"},
		widths:  []float64{60, 30, 30, 30, 30},
		rows:    ticketPeople,
	})

	return tables
}

// addTable draws a section title and a striped table
func (s *PDFService) addTable(pdf *gofpdf.Fpdf, tr func(string) string, table pdfTable) {
	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+3*pdfRowHeight+12 > pageHeight-20 {
		pdf.AddPage()
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 8, table.title, "", 1, "L", false, 0, "")
	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(0, 102, 204)
	pdf.Line(pdfLeft, pdf.GetY(), pdfRight, pdf.GetY())
	pdf.Ln(2)

	writeHeader := func() {
		pdf.SetFillColor(0, 102, 204)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 9)
		for i, h := range table.headers {
			pdf.CellFormat(table.widths[i], pdfRowHeight+1, h, "1", 0, cellAlign(i), true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	if len(table.rows) == 0 {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(pdfTableWidth, pdfRowHeight, "No records for this period", "1", 1, "C", false, 0, "")
		pdf.Ln(6)
		return
	}

	pdf.SetFont("Arial", "", 9)
	for r, row := range table.rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-20 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Arial", "", 9)
		}
		if r%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(33, 37, 41)
		for i, cell := range row {
			pdf.CellFormat(table.widths[i], pdfRowHeight, truncateCell(pdf, tr(cell), table.widths[i]-2), "1", 0, cellAlign(i), true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func cellAlign(col int) string {
	if col == 0 {
		return "L"
	}
	return "C"
}

// truncateCell shortens text that would overflow a cell
func truncateCell(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
