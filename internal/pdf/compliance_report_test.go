package pdf

import (
	"bytes"
	"testing"
	"time"
)

func TestComplianceReportRendersPDF(t *testing.T) {
	g := NewReportGenerator("")
	out, err := g.ComplianceReport(ReportData{
		DealID:           "42",
		DealName:         "Acme renewal",
		Seats:            "1,200",
		CloseDate:        "2025-06-02",
		RLD:              "2025-06-09",
		SuggestedRLD:     "2025-06-30",
		ComplianceStatus: "rld_too_soon",
		OverrideStatus:   "pending",
		Violations: []ReportViolation{
			{Priority: 4, Type: "rld_too_soon", Message: "RLD too soon (less than 4 weeks)", Severity: "warning"},
		},
		GeneratedAt: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}
