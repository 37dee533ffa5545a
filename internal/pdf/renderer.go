// Package pdf renders a persisted job card as a paginated PDF report.
//
// The section order and labels are a compatibility contract: rendering the
// same record must always produce the same sections in the same order.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
)

// ErrRenderFailure indicates PDF generation failed.
var ErrRenderFailure = errors.New("pdf generation failed")

// Renderer builds job card PDF reports.
type Renderer struct {
	now func() time.Time
}

// NewRenderer creates a report renderer.
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

type field struct {
	label string
	value string
}

// Render produces the PDF report for a job card. Image attachments are
// referenced by URL, not embedded.
func (r *Renderer) Render(card model.JobCard) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Job Card Report", false)

	generatedAt := r.now()
	doc.SetCreationDate(generatedAt)
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 10,
			fmt.Sprintf("Generated on: %s", generatedAt.Format("2006-01-02 15:04:05")),
			"", 0, "C", false, 0, "")
	})

	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "Job Card Report", "", 1, "C", false, 0, "")
	doc.Ln(4)

	machineModel := card.MachineModel
	if machineModel == "" {
		machineModel = "N/A"
	}
	partsReplaced := card.PartsReplaced
	if partsReplaced == "" {
		partsReplaced = "None"
	}

	r.section(doc, "Engineer Details", []field{
		{"Name", card.EngineerName},
		{"ID", card.EngineerID},
		{"Phone", card.EngineerPhone},
	})
	r.section(doc, "Client Details", []field{
		{"Contact Person", card.ClientName},
		{"Company/Institution", card.ClientCompany},
		{"Phone", card.ClientPhone},
		{"Email", card.ClientEmail},
	})
	r.section(doc, "Machine Details", []field{
		{"Machine Name", card.MachineName},
		{"Serial Number", card.MachineSerialNumber},
		{"Model", machineModel},
	})
	r.section(doc, "Fault Details", []field{
		{"Reported Date", card.ReportedDate.Format("2006-01-02")},
		{"Description", card.FaultDescription},
	})
	r.section(doc, "Final Result", []field{
		{"Status", model.ResolutionStatusLabel(card.ResolutionStatus)},
		{"Details", card.ResolutionDetails},
	})
	r.section(doc, "Parts Replaced", []field{
		{"Parts Replaced", partsReplaced},
	})
	r.section(doc, "Recommendations", []field{
		{"Recommendations", card.Recommendations},
	})

	// Attachments get a fresh page; images are linked, not embedded.
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Attachments", "", 1, "L", false, 0, "")
	doc.Ln(2)

	if card.StampImageURL != "" {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 6, "Institution Stamp", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, "Image URL: "+card.StampImageURL, "", "L", false)
		doc.Ln(3)
	}
	if card.SignatureImageURL != "" {
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 6, "Client Signature", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, "Image URL: "+card.SignatureImageURL, "", "L", false)
		doc.Ln(3)
	}
	if card.StampImageURL == "" && card.SignatureImageURL == "" {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, "No attachments provided", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

// section writes one titled block of label/value rows, skipping empty
// values.
func (r *Renderer) section(doc *fpdf.Fpdf, title string, fields []field) {
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		doc.MultiCell(0, 5, fmt.Sprintf("%s: %s", f.label, f.value), "", "L", false)
	}
	doc.Ln(4)
}
