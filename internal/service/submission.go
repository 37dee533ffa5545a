package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/blob"
	"github.com/UzairFarooq1/NXS-jobcard/internal/mail"
	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/internal/pdf"
	"github.com/UzairFarooq1/NXS-jobcard/internal/repository"
)

// SubmissionService handles the live submission path: validate, upload
// attachments, persist, email the report with the PDF attached.
type SubmissionService struct {
	repo     repository.JobCardRepository
	uploader blob.Uploader
	renderer *pdf.Renderer
	sender   mail.Sender
}

// NewSubmissionService creates a new submission service.
// Returns nil if repo is nil (required dependency).
func NewSubmissionService(
	repo repository.JobCardRepository,
	uploader blob.Uploader,
	renderer *pdf.Renderer,
	sender mail.Sender,
) *SubmissionService {
	if repo == nil {
		return nil
	}
	return &SubmissionService{
		repo:     repo,
		uploader: uploader,
		renderer: renderer,
		sender:   sender,
	}
}

// Submit processes a completed wizard payload. The row is inserted before
// email/PDF side effects run; an email or PDF failure fails the whole
// submission but leaves the row in place.
func (s *SubmissionService) Submit(ctx context.Context, form model.FormValues) (model.SubmitResult, error) {
	if err := form.Validate(); err != nil {
		return model.SubmitResult{}, err
	}

	stampURL, err := s.resolveAttachment(ctx, form.StampImage, "stamp")
	if err != nil {
		return model.SubmitResult{}, err
	}
	signatureURL, err := s.resolveAttachment(ctx, form.SignatureImage, "signature")
	if err != nil {
		return model.SubmitResult{}, err
	}

	card := model.JobCard{
		EngineerName:        form.EngineerName,
		EngineerID:          form.EngineerID,
		EngineerPhone:       form.EngineerPhone,
		ClientName:          form.ClientName,
		ClientCompany:       form.ClientCompany,
		ClientPhone:         form.ClientPhone,
		ClientEmail:         form.ClientEmail,
		MachineName:         form.MachineName,
		MachineSerialNumber: form.MachineSerialNumber,
		MachineModel:        form.MachineModel,
		FaultDescription:    form.FaultDescription,
		ReportedDate:        form.ReportedDate,
		ResolutionStatus:    form.ResolutionStatus,
		ResolutionDetails:   form.ResolutionDetails,
		PartsReplaced:       form.PartsReplaced,
		Recommendations:     form.Recommendations,
		StampImageURL:       stampURL,
		SignatureImageURL:   signatureURL,
		SyncedFromOffline:   form.SyncedFromOffline,
	}

	id, err := s.repo.Insert(ctx, card)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("failed to save job card: %w", err)
	}
	card.ID = id

	var messageID string
	if s.sender != nil && s.renderer != nil {
		pdfData, err := s.renderer.Render(card)
		if err != nil {
			return model.SubmitResult{}, err
		}

		messageID, err = s.sender.SendJobCard(ctx, card, pdfData)
		if err != nil {
			return model.SubmitResult{}, err
		}

		if err := s.repo.MarkEmailSent(ctx, id); err != nil {
			// Email went out; a stale flag is not worth failing over.
			log.Printf("[SubmissionService] Job card %s: failed to mark email sent: %v", id, err)
		}
	}

	if card.SyncedFromOffline {
		log.Printf("[SubmissionService] Job card %s accepted (replayed from offline queue)", id)
	} else {
		log.Printf("[SubmissionService] Job card %s accepted", id)
	}

	return model.SubmitResult{
		JobCardID:    id,
		MessageID:    messageID,
		PDFAvailable: s.renderer != nil,
	}, nil
}

// resolveAttachment uploads an inline base64 image and returns its URL.
// Values that are already URLs (or empty) pass through untouched.
func (s *SubmissionService) resolveAttachment(ctx context.Context, value, kind string) (string, error) {
	if value == "" || !blob.IsDataURI(value) {
		return value, nil
	}
	if s.uploader == nil {
		return "", fmt.Errorf("%w: no uploader configured", blob.ErrUploadFailure)
	}

	data, contentType, err := blob.DecodeDataURI(value)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("%s-%d.jpg", kind, time.Now().UnixMilli())
	url, err := s.uploader.Upload(ctx, fileName, data, contentType)
	if err != nil {
		return "", err
	}
	return url, nil
}

// GetJobCard retrieves a persisted job card. Returns (nil, nil) if absent.
func (s *SubmissionService) GetJobCard(ctx context.Context, id string) (*model.JobCard, error) {
	return s.repo.GetByID(ctx, id)
}

// ListJobCards returns recent job cards for the dashboard.
func (s *SubmissionService) ListJobCards(ctx context.Context, limit int) ([]model.JobCard, error) {
	return s.repo.List(ctx, limit)
}
