package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/UzairFarooq1/NXS-jobcard/internal/service"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/apierror"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/response"
)

// PDFHandler serves downloadable job card PDF reports.
type PDFHandler struct {
	reportService *service.ReportService
}

// NewPDFHandler creates a new PDF handler.
func NewPDFHandler(reportService *service.ReportService) *PDFHandler {
	return &PDFHandler{
		reportService: reportService,
	}
}

// Download handles GET /api/pdf/{id}
func (h *PDFHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.Error(w, apierror.BadRequest("job card id is required"))
		return
	}

	pdfData, err := h.reportService.GeneratePDF(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrJobCardNotFound) {
			response.Error(w, apierror.NotFound("job card not found"))
			return
		}
		response.Error(w, apierror.InternalError("failed to generate PDF"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="jobcard-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfData)
}

// MissingID handles GET /api/pdf without an id segment.
func (h *PDFHandler) MissingID(w http.ResponseWriter, r *http.Request) {
	response.Error(w, apierror.BadRequest("job card id is required"))
}
