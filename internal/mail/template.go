package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
)

// jobCardEmailTemplate is the HTML body sent to the admin recipient. It
// mirrors the PDF report's section order; attachment images are embedded by
// URL.
const jobCardEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e5e7eb;">
    <h1 style="text-align: center; color: #111827;">Job Card Report</h1>

    <div style="margin-bottom: 20px; padding: 15px; background-color: #f9fafb; border-radius: 5px;">
      <h2 style="font-size: 18px; color: #4b5563;">Engineer Details</h2>
      <p style="margin: 5px 0; color: #374151;">Name: {{.Card.EngineerName}}</p>
      <p style="margin: 5px 0; color: #374151;">ID: {{.Card.EngineerID}}</p>
      <p style="margin: 5px 0; color: #374151;">Phone: {{.Card.EngineerPhone}}</p>
    </div>

    <div style="margin-bottom: 20px; padding: 15px; background-color: #f9fafb; border-radius: 5px;">
      <h2 style="font-size: 18px; color: #4b5563;">Client Details</h2>
      <p style="margin: 5px 0; color: #374151;">Contact Person: {{.Card.ClientName}}</p>
      <p style="margin: 5px 0; color: #374151;">Company/Institution: {{.Card.ClientCompany}}</p>
      <p style="margin: 5px 0; color: #374151;">Phone: {{.Card.ClientPhone}}</p>
      <p style="margin: 5px 0; color: #374151;">Email: {{.Card.ClientEmail}}</p>
    </div>

    <div style="margin-bottom: 20px; padding: 15px; background-color: #f9fafb; border-radius: 5px;">
      <h2 style="font-size: 18px; color: #4b5563;">Machine Details</h2>
      <p style="margin: 5px 0; color: #374151;">Machine Name: {{.Card.MachineName}}</p>
      <p style="margin: 5px 0; color: #374151;">Model: {{.MachineModel}}</p>
      <p style="margin: 5px 0; color: #374151;">Serial Number: {{.Card.MachineSerialNumber}}</p>
    </div>

    <div style="margin-bottom: 20px; padding: 15px; background-color: #f9fafb; border-radius: 5px;">
      <h2 style="font-size: 18px; color: #4b5563;">Fault Details</h2>
      <p style="margin: 5px 0; color: #374151;">Reported Date: {{.ReportedDate}}</p>
      <p style="margin: 5px 0; color: #374151;">Description: {{.Card.FaultDescription}}</p>
    </div>

    <div style="margin-bottom: 20px; padding: 15px; background-color: #f9fafb; border-radius: 5px;">
      <h2 style="font-size: 18px; color: #4b5563;">Final Result</h2>
      <p style="margin: 5px 0; color: #374151;">Status: {{.ResolutionStatus}}</p>
      <p style="margin: 5px 0; color: #374151;">Details: {{.Card.ResolutionDetails}}</p>
      {{if .Card.PartsReplaced}}<p style="margin: 5px 0; color: #374151;">Parts Replaced: {{.Card.PartsReplaced}}</p>{{end}}
    </div>

    <div style="margin-bottom: 20px; padding: 15px; background-color: #f9fafb; border-radius: 5px;">
      <h2 style="font-size: 18px; color: #4b5563;">Recommendations</h2>
      <p style="margin: 5px 0; color: #374151;">{{.Card.Recommendations}}</p>
    </div>

    <hr style="border-color: #e5e7eb; margin: 20px 0;" />

    {{if .Card.StampImageURL}}
    <div style="margin-bottom: 20px;">
      <h3 style="font-size: 16px; color: #4b5563;">Institution Stamp</h3>
      <img src="{{.Card.StampImageURL}}" alt="Institution Stamp" style="max-height: 150px; border: 1px solid #e5e7eb;" />
    </div>
    {{end}}

    {{if .Card.SignatureImageURL}}
    <div style="margin-bottom: 20px;">
      <h3 style="font-size: 16px; color: #4b5563;">Client Signature</h3>
      <img src="{{.Card.SignatureImageURL}}" alt="Client Signature" style="max-height: 150px; border: 1px solid #e5e7eb;" />
    </div>
    {{end}}

    {{if .Card.SyncedFromOffline}}
    <p style="text-align: center; font-size: 12px; color: #b45309;">Submitted offline and synced when connectivity was restored</p>
    {{end}}

    <p style="text-align: center; font-size: 12px; color: #6b7280; margin-top: 20px;">
      This job card was generated on {{.GeneratedAt}}
    </p>
  </div>
</body>
</html>
`

var emailTmpl = template.Must(template.New("jobcard").Parse(jobCardEmailTemplate))

// renderHTML builds the email body for a job card.
func renderHTML(card model.JobCard) (string, error) {
	machineModel := card.MachineModel
	if machineModel == "" {
		machineModel = "N/A"
	}

	data := struct {
		Card             model.JobCard
		MachineModel     string
		ReportedDate     string
		ResolutionStatus string
		GeneratedAt      string
	}{
		Card:             card,
		MachineModel:     machineModel,
		ReportedDate:     card.ReportedDate.Format("2006-01-02"),
		ResolutionStatus: model.ResolutionStatusLabel(card.ResolutionStatus),
		GeneratedAt:      time.Now().Format("2006-01-02 15:04"),
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render job card email: %w", err)
	}
	return buf.String(), nil
}
