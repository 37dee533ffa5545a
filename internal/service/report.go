package service

import (
	"context"
	"errors"
	"time"

	"github.com/UzairFarooq1/NXS-jobcard/internal/cache"
	"github.com/UzairFarooq1/NXS-jobcard/internal/pdf"
	"github.com/UzairFarooq1/NXS-jobcard/internal/repository"
)

// ErrJobCardNotFound indicates no job card exists for the requested id.
var ErrJobCardNotFound = errors.New("job card not found")

// ReportService serves downloadable PDF reports for stored job cards,
// caching rendered bytes so repeated downloads skip regeneration.
type ReportService struct {
	repo     repository.JobCardRepository
	renderer *pdf.Renderer
	pdfCache cache.Cache
	cacheTTL time.Duration
}

// NewReportService creates a report service. pdfCache may be nil, in which
// case every request renders fresh.
func NewReportService(repo repository.JobCardRepository, renderer *pdf.Renderer, pdfCache cache.Cache, cacheTTL time.Duration) *ReportService {
	if repo == nil || renderer == nil {
		return nil
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &ReportService{
		repo:     repo,
		renderer: renderer,
		pdfCache: pdfCache,
		cacheTTL: cacheTTL,
	}
}

// GeneratePDF returns the rendered PDF report for the given job card id.
func (s *ReportService) GeneratePDF(ctx context.Context, id string) ([]byte, error) {
	render := func() ([]byte, error) {
		card, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, ErrJobCardNotFound
		}
		return s.renderer.Render(*card)
	}

	if s.pdfCache == nil {
		return render()
	}
	return s.pdfCache.GetOrSet(ctx, "pdf:"+id, s.cacheTTL, render)
}
