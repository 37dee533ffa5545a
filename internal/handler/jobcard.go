package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/UzairFarooq1/NXS-jobcard/internal/blob"
	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/internal/service"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/apierror"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/response"
)

// JobCardHandler handles job card HTTP requests.
type JobCardHandler struct {
	submissionService *service.SubmissionService
}

// NewJobCardHandler creates a new job card handler.
func NewJobCardHandler(submissionService *service.SubmissionService) *JobCardHandler {
	return &JobCardHandler{
		submissionService: submissionService,
	}
}

// Submit handles POST /api/v1/jobcards
func (h *JobCardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form model.FormValues
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON payload"))
		return
	}
	defer r.Body.Close()

	result, err := h.submissionService.Submit(r.Context(), form)
	if err != nil {
		response.Error(w, mapSubmitError(err))
		return
	}

	response.Created(w, result)
}

// mapSubmitError converts submission failures into API errors.
func mapSubmitError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]apierror.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, apierror.FieldError{
				Field:   fe.Field(),
				Message: "failed validation rule: " + fe.Tag(),
			})
		}
		return apierror.ValidationError("job card payload is invalid", details...)
	}
	if errors.Is(err, blob.ErrUploadFailure) {
		return apierror.InternalError("failed to upload attachment")
	}
	return apierror.InternalError("failed to submit job card")
}

// GetByID handles GET /api/v1/jobcards/{id}
func (h *JobCardHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.Error(w, apierror.BadRequest("job card id is required"))
		return
	}

	card, err := h.submissionService.GetJobCard(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if card == nil {
		response.Error(w, apierror.NotFound("job card not found"))
		return
	}

	response.OK(w, card)
}

// List handles GET /api/v1/jobcards - dashboard listing, newest first.
func (h *JobCardHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			response.Error(w, apierror.BadRequest("limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	cards, err := h.submissionService.ListJobCards(r.Context(), limit)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"job_cards": cards,
		"count":     len(cards),
	})
}
