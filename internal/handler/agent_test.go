package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/internal/offline"
)

type stubSubmitter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubSubmitter) Submit(context.Context, model.FormValues) (model.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.SubmitResult{}, s.err
	}
	s.calls++
	return model.SubmitResult{JobCardID: "jc-1", PDFAvailable: true}, nil
}

type agentFixture struct {
	router    *chi.Mux
	store     *offline.Store
	submitter *stubSubmitter
}

// newAgentFixture wires a full agent stack over a throwaway queue file. The
// probe result is fixed for the test's lifetime; the hour-long tick interval
// never fires, so Online() keeps the value observed at Start.
func newAgentFixture(t *testing.T, online bool) *agentFixture {
	t.Helper()

	store := offline.NewStore(filepath.Join(t.TempDir(), "queue.db"))
	submitter := &stubSubmitter{}

	monitor := offline.NewMonitor(func(context.Context) bool {
		return online
	}, time.Hour, nil)
	monitor.Start()
	t.Cleanup(monitor.Stop)

	replayer := offline.NewReplayer(store, submitter)
	h := NewAgentHandler(store, monitor, replayer, submitter)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/submit", h.Submit)
		r.Get("/status", h.Status)
		r.Post("/sync", h.Sync)
		r.Route("/queue", func(r chi.Router) {
			r.Get("/", h.ListQueue)
			r.Delete("/{id}", h.DeleteQueued)
		})
	})

	return &agentFixture{router: r, store: store, submitter: submitter}
}

func (f *agentFixture) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAgentSubmit_QueuesWhenOffline(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/v1/submit", validPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope struct {
		Data struct {
			Queued  bool  `json:"queued"`
			QueueID int64 `json:"queue_id"`
			Pending int   `json:"pending"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Queued)
	assert.Positive(t, envelope.Data.QueueID)
	assert.Equal(t, 1, envelope.Data.Pending)

	subs, err := f.store.ListUnsynced(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].FormData.SyncedFromOffline, "marker is set at replay time, not enqueue time")
}

func TestAgentSubmit_ValidatesBeforeQueueing(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, false)

	payload := validPayload()
	payload["faultDescription"] = "short"

	rec := f.do(t, http.MethodPost, "/api/v1/submit", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	subs, err := f.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs, "invalid payloads never reach the queue")
}

func TestAgentStatus(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, false)

	f.do(t, http.MethodPost, "/api/v1/submit", validPayload())

	rec := f.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Online  bool `json:"online"`
			Pending int  `json:"pending"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Online)
	assert.Equal(t, 1, envelope.Data.Pending)
}

func TestAgentSync_DrainsQueue(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, false)

	f.do(t, http.MethodPost, "/api/v1/submit", validPayload())
	f.do(t, http.MethodPost, "/api/v1/submit", validPayload())

	rec := f.do(t, http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Remaining int `json:"remaining"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Zero(t, envelope.Data.Remaining)
	assert.Equal(t, 2, f.submitter.calls)
}

func TestAgentSync_FailuresStayQueued(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, false)
	f.do(t, http.MethodPost, "/api/v1/submit", validPayload())

	f.submitter.mu.Lock()
	f.submitter.err = errors.New("service unreachable")
	f.submitter.mu.Unlock()

	rec := f.do(t, http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Remaining int `json:"remaining"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Remaining)
}

func TestAgentQueue_ListAndDelete(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, false)
	f.do(t, http.MethodPost, "/api/v1/submit", validPayload())

	rec := f.do(t, http.MethodGet, "/api/v1/queue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Submissions []model.QueuedSubmission `json:"submissions"`
			Count       int                      `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Data.Count)
	id := envelope.Data.Submissions[0].ID

	rec = f.do(t, http.MethodDelete, "/api/v1/queue/"+jsonNumber(id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/queue/"+jsonNumber(id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "deletion is permanent")
}

func TestAgentQueue_DeleteBadID(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, false)

	rec := f.do(t, http.MethodDelete, "/api/v1/queue/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func jsonNumber(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}

func TestAgentSubmit_ForwardsWhenOnline(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, true)

	rec := f.do(t, http.MethodPost, "/api/v1/submit", validPayload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data struct {
			Queued bool               `json:"queued"`
			Result model.SubmitResult `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Data.Queued)
	assert.Equal(t, "jc-1", envelope.Data.Result.JobCardID)

	subs, err := f.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs, "online submissions bypass the queue")
}

func TestAgentSubmit_OnlineFailureDoesNotQueue(t *testing.T) {
	t.Parallel()

	f := newAgentFixture(t, true)
	f.submitter.err = errors.New("service unreachable")

	rec := f.do(t, http.MethodPost, "/api/v1/submit", validPayload())
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	subs, err := f.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}
