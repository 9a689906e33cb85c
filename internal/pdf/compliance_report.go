package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders deal compliance reports (handy to fake in tests).
type Generator interface {
	ComplianceReport(data ReportData) ([]byte, error)
}

type ReportViolation struct {
	Priority int
	Type     string
	Message  string
	Severity string
}

type ReportData struct {
	DealID           string
	DealName         string
	Seats            string
	Pipeline         string
	CloseDate        string
	RLD              string
	SuggestedRLD     string
	ComplianceStatus string
	OverrideStatus   string
	RequestedBy      string
	ApprovedBy       string
	ApprovalDate     string
	CanClose         bool
	Violations       []ReportViolation
	GeneratedAt      time.Time
}

// ReportGenerator draws with a UTF-8 TTF when FontPath is set, otherwise with
// the core Helvetica font.
type ReportGenerator struct {
	FontPath string
	fontName string
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "DejaVu"
	}
	return &ReportGenerator{FontPath: fontPath, fontName: name}
}

func (g *ReportGenerator) ComplianceReport(data ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("RLD compliance - deal %s", data.DealID), false)
	pdf.SetAuthor("rldguard", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "RLD COMPLIANCE REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Generated %s", data.GeneratedAt.Format("Jan 2, 2006 15:04 MST")), "", 1, "C", false, 0, "")
	g.hr(pdf)

	g.sectionTitle(pdf, "Deal")
	g.kvLine(pdf, "Deal", orDash(data.DealName))
	g.kvLine(pdf, "Deal ID", data.DealID)
	g.kvLine(pdf, "Seats", orDash(data.Seats))
	g.kvLine(pdf, "Pipeline", orDash(data.Pipeline))
	g.hr(pdf)

	g.sectionTitle(pdf, "Dates")
	g.kvLine(pdf, "Close Date", orDash(data.CloseDate))
	g.kvLine(pdf, "Requested Launch", orDash(data.RLD))
	g.kvLine(pdf, "Suggested Launch", orDash(data.SuggestedRLD))
	g.hr(pdf)

	g.sectionTitle(pdf, "Compliance")
	g.kvLine(pdf, "Status", orDash(data.ComplianceStatus))
	for _, v := range data.Violations {
		pdf.SetFont(g.fontName, "", 11)
		line := fmt.Sprintf("%d. [%s] %s (%s)", v.Priority, v.Severity, v.Message, v.Type)
		pdf.MultiCell(0, 6, line, "", "L", false)
	}
	pdf.Ln(1)
	g.hr(pdf)

	g.sectionTitle(pdf, "Override")
	g.kvLine(pdf, "Status", orDash(data.OverrideStatus))
	g.kvLine(pdf, "Requested by", orDash(data.RequestedBy))
	g.kvLine(pdf, "Approved by", orDash(data.ApprovedBy))
	g.kvLine(pdf, "Approval date", orDash(data.ApprovalDate))
	closable := "No - closing blocked"
	if data.CanClose {
		closable = "Yes"
	}
	g.kvLine(pdf, "Can close won", closable)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ReportGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	if g.FontPath == "" {
		return
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
