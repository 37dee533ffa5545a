package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Resolution status values accepted by the wizard.
const (
	StatusResolved          = "resolved"
	StatusPartiallyResolved = "partiallyResolved"
	StatusUnresolved        = "unresolved"
)

// ResolutionStatusLabel returns the human-readable label used in emails and
// PDF reports. Unknown values fall through to the unresolved label.
func ResolutionStatusLabel(status string) string {
	switch status {
	case StatusResolved:
		return "Fully Resolved - Machine is working normally"
	case StatusPartiallyResolved:
		return "Partially Resolved - Requires additional parts"
	default:
		return "Unresolved - Further action required"
	}
}

// FormValues is the completed wizard payload as submitted by a field
// engineer. Required vs optional fields mirror the wizard's validation
// schema; Validate enforces them at the boundary before anything is
// persisted or queued.
type FormValues struct {
	// Engineer details
	EngineerName  string `json:"engineerName" validate:"required,min=2"`
	EngineerID    string `json:"engineerId" validate:"required,min=2"`
	EngineerPhone string `json:"engineerPhone" validate:"required,min=10"`

	// Client details
	ClientName    string `json:"clientName" validate:"required,min=2"`
	ClientCompany string `json:"clientCompany" validate:"required,min=2"`
	ClientPhone   string `json:"clientPhone" validate:"required,min=10"`
	ClientEmail   string `json:"clientEmail" validate:"required,email"`

	// Machine details
	MachineName         string `json:"machineName" validate:"required,min=2"`
	MachineSerialNumber string `json:"machineSerialNumber" validate:"required,min=2"`
	MachineModel        string `json:"machineModel,omitempty"`

	// Fault details
	FaultDescription string    `json:"faultDescription" validate:"required,min=10"`
	ReportedDate     time.Time `json:"reportedDate" validate:"required"`

	// Final result
	ResolutionStatus  string `json:"resolutionStatus" validate:"required,oneof=resolved partiallyResolved unresolved"`
	ResolutionDetails string `json:"resolutionDetails" validate:"required,min=10"`
	PartsReplaced     string `json:"partsReplaced,omitempty"`

	// Recommendations
	Recommendations string `json:"recommendations" validate:"required,min=10"`

	// Attachments: either base64 data URIs (uploaded server-side) or
	// already-uploaded blob URLs.
	StampImage     string `json:"stampImage,omitempty"`
	SignatureImage string `json:"signatureImage,omitempty"`

	// SyncedFromOffline marks a replayed submission. The Sync Replayer sets
	// it; live submissions leave it false.
	SyncedFromOffline bool `json:"syncedFromOffline,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the payload against the wizard's field rules.
func (f *FormValues) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid job card payload: %w", err)
	}
	return nil
}

// JobCard is a persisted job card record as stored by the submission
// service.
type JobCard struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	EngineerName  string `json:"engineer_name"`
	EngineerID    string `json:"engineer_id"`
	EngineerPhone string `json:"engineer_phone"`

	ClientName    string `json:"client_name"`
	ClientCompany string `json:"client_company"`
	ClientPhone   string `json:"client_phone"`
	ClientEmail   string `json:"client_email"`

	MachineName         string `json:"machine_name"`
	MachineSerialNumber string `json:"machine_serial_number"`
	MachineModel        string `json:"machine_model,omitempty"`

	FaultDescription string    `json:"fault_description"`
	ReportedDate     time.Time `json:"reported_date"`

	ResolutionStatus  string `json:"resolution_status"`
	ResolutionDetails string `json:"resolution_details"`
	PartsReplaced     string `json:"parts_replaced,omitempty"`

	Recommendations string `json:"recommendations"`

	StampImageURL     string `json:"stamp_image_url,omitempty"`
	SignatureImageURL string `json:"signature_image_url,omitempty"`

	EmailSent         bool `json:"email_sent"`
	SyncedFromOffline bool `json:"synced_from_offline"`
}

// SubmitResult is returned by the submission service on success.
type SubmitResult struct {
	JobCardID    string `json:"jobCardId"`
	MessageID    string `json:"messageId,omitempty"`
	PDFAvailable bool   `json:"pdfAvailable"`
}
