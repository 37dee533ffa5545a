package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/internal/pdf"
	"github.com/UzairFarooq1/NXS-jobcard/internal/repository"
)

type memRepo struct {
	mu        sync.Mutex
	cards     map[string]model.JobCard
	order     []string
	insertErr error
	markErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{cards: make(map[string]model.JobCard)}
}

func (r *memRepo) Insert(_ context.Context, card model.JobCard) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return "", r.insertErr
	}
	card.ID = fmt.Sprintf("card-%d", len(r.order)+1)
	card.CreatedAt = time.Now().UTC()
	r.cards[card.ID] = card
	r.order = append(r.order, card.ID)
	return card.ID, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*model.JobCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	card, ok := r.cards[id]
	if !ok {
		return nil, nil
	}
	return &card, nil
}

func (r *memRepo) List(_ context.Context, limit int) ([]model.JobCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.JobCard
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.cards[r.order[i]])
	}
	return out, nil
}

func (r *memRepo) MarkEmailSent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	card, ok := r.cards[id]
	if !ok {
		return errors.New("no such card")
	}
	card.EmailSent = true
	r.cards[id] = card
	return nil
}

func (r *memRepo) GetStats(context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"total_job_cards": int64(len(r.cards))}, nil
}

func (r *memRepo) Close() error { return nil }

var _ repository.JobCardRepository = (*memRepo)(nil)

type fakeUploader struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (u *fakeUploader) Upload(_ context.Context, fileName string, _ []byte, _ string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	u.uploads = append(u.uploads, fileName)
	return "https://blob.example/" + fileName, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []model.JobCard
	pdfs [][]byte
	err  error
}

func (s *fakeSender) SendJobCard(_ context.Context, card model.JobCard, pdfData []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, card)
	s.pdfs = append(s.pdfs, pdfData)
	return fmt.Sprintf("<msg-%d@nxsltd.com>", len(s.sent)), nil
}

func validForm() model.FormValues {
	return model.FormValues{
		EngineerName:        "Jane Mwangi",
		EngineerID:          "ENG-042",
		EngineerPhone:       "0712345678",
		ClientName:          "Peter Otieno",
		ClientCompany:       "Coast General Hospital",
		ClientPhone:         "0722000111",
		ClientEmail:         "procurement@coastgeneral.example",
		MachineName:         "Autoclave X300",
		MachineSerialNumber: "AX300-9912",
		FaultDescription:    "Chamber fails to reach sterilization temperature",
		ReportedDate:        time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		ResolutionStatus:    model.StatusResolved,
		ResolutionDetails:   "Replaced faulty heating element and recalibrated",
		Recommendations:     "Schedule quarterly preventive maintenance visits",
	}
}

func dataURI(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestSubmit_FullPath(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	sender := &fakeSender{}
	svc := NewSubmissionService(repo, &fakeUploader{}, pdf.NewRenderer(), sender)
	require.NotNil(t, svc)

	result, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)

	assert.NotEmpty(t, result.JobCardID)
	assert.NotEmpty(t, result.MessageID)
	assert.True(t, result.PDFAvailable)

	card, err := repo.GetByID(context.Background(), result.JobCardID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.True(t, card.EmailSent)
	assert.False(t, card.SyncedFromOffline)

	require.Len(t, sender.sent, 1)
	require.Len(t, sender.pdfs, 1)
	assert.Equal(t, "%PDF", string(sender.pdfs[0][:4]))
}

func TestSubmit_ValidationFailure(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := NewSubmissionService(repo, nil, nil, nil)

	form := validForm()
	form.EngineerName = ""
	form.ClientEmail = "not-an-email"

	_, err := svc.Submit(context.Background(), form)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Empty(t, repo.cards, "nothing persisted on validation failure")
}

func TestSubmit_UploadsInlineAttachments(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	uploader := &fakeUploader{}
	svc := NewSubmissionService(repo, uploader, nil, nil)

	form := validForm()
	form.StampImage = dataURI("stamp-bytes")
	form.SignatureImage = dataURI("signature-bytes")

	result, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)

	card, err := repo.GetByID(context.Background(), result.JobCardID)
	require.NoError(t, err)
	require.NotNil(t, card)

	assert.True(t, strings.HasPrefix(card.StampImageURL, "https://blob.example/stamp-"))
	assert.True(t, strings.HasPrefix(card.SignatureImageURL, "https://blob.example/signature-"))
	assert.Len(t, uploader.uploads, 2)
}

func TestSubmit_PassesThroughExistingURLs(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	uploader := &fakeUploader{}
	svc := NewSubmissionService(repo, uploader, nil, nil)

	form := validForm()
	form.StampImage = "https://blob.example/already-uploaded.jpg"

	result, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)

	card, _ := repo.GetByID(context.Background(), result.JobCardID)
	require.NotNil(t, card)
	assert.Equal(t, "https://blob.example/already-uploaded.jpg", card.StampImageURL)
	assert.Empty(t, uploader.uploads, "URLs are not re-uploaded")
}

func TestSubmit_EmailFailureKeepsRow(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	sender := &fakeSender{err: errors.New("smtp: connection refused")}
	svc := NewSubmissionService(repo, nil, pdf.NewRenderer(), sender)

	_, err := svc.Submit(context.Background(), validForm())
	require.Error(t, err)

	// The row was inserted before the email side effect failed.
	require.Len(t, repo.cards, 1)
	for _, card := range repo.cards {
		assert.False(t, card.EmailSent)
	}
}

func TestSubmit_InsertFailure(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	repo.insertErr = errors.New("disk full")
	sender := &fakeSender{}
	svc := NewSubmissionService(repo, nil, pdf.NewRenderer(), sender)

	_, err := svc.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Empty(t, sender.sent, "no email without a persisted row")
}

func TestSubmit_PreservesOfflineMarker(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := NewSubmissionService(repo, nil, nil, nil)

	form := validForm()
	form.SyncedFromOffline = true

	result, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)

	card, _ := repo.GetByID(context.Background(), result.JobCardID)
	require.NotNil(t, card)
	assert.True(t, card.SyncedFromOffline)
	assert.False(t, result.PDFAvailable, "no renderer configured")
}

func TestSubmit_MarkEmailSentFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	repo.markErr = errors.New("update failed")
	sender := &fakeSender{}
	svc := NewSubmissionService(repo, nil, pdf.NewRenderer(), sender)

	result, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err, "email went out; a stale flag does not fail the submission")
	assert.NotEmpty(t, result.MessageID)
}

func TestNewSubmissionService_RequiresRepo(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewSubmissionService(nil, nil, nil, nil))
}
