package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/internal/offline"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/apierror"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/response"
)

// AgentHandler is the local API the wizard UI talks to on the engineer's
// device. Online submissions go straight to the submission service; offline
// submissions land in the local queue for later replay.
type AgentHandler struct {
	store     *offline.Store
	monitor   *offline.Monitor
	replayer  *offline.Replayer
	submitter offline.Submitter
}

// NewAgentHandler creates a new agent handler.
func NewAgentHandler(
	store *offline.Store,
	monitor *offline.Monitor,
	replayer *offline.Replayer,
	submitter offline.Submitter,
) *AgentHandler {
	return &AgentHandler{
		store:     store,
		monitor:   monitor,
		replayer:  replayer,
		submitter: submitter,
	}
}

// Submit handles POST /api/v1/submit
//
// With connectivity: forward to the submission service; a failure surfaces
// as an error since the user has no offline fallback once already online.
// Without connectivity: queue locally, which always succeeds unless the
// local store itself is unavailable.
func (h *AgentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form model.FormValues
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON payload"))
		return
	}
	defer r.Body.Close()

	if err := form.Validate(); err != nil {
		response.Error(w, mapSubmitError(err))
		return
	}

	if h.monitor.Online() {
		result, err := h.submitter.Submit(r.Context(), form)
		if err != nil {
			response.Error(w, apierror.ServiceUnavailable("job card submission failed"))
			return
		}
		response.OK(w, map[string]interface{}{
			"queued": false,
			"result": result,
		})
		return
	}

	id, err := h.store.Save(r.Context(), form)
	if err != nil {
		response.Error(w, apierror.ServiceUnavailable("offline queue unavailable"))
		return
	}

	pending, _ := h.store.CountUnsynced(r.Context())
	response.Created(w, map[string]interface{}{
		"queued":   true,
		"queue_id": id,
		"pending":  pending,
	})
}

// Status handles GET /api/v1/status - drives the UI's offline badge.
func (h *AgentHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.store.CountUnsynced(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"online":  h.monitor.Online(),
		"pending": pending,
	})
}

// ListQueue handles GET /api/v1/queue - diagnostics/export of the local
// store, synced records included.
func (h *AgentHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListAll(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"submissions": subs,
		"count":       len(subs),
	})
}

// DeleteQueued handles DELETE /api/v1/queue/{id} - explicit, permanent
// removal of a queued record. Never called automatically.
func (h *AgentHandler) DeleteQueued(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.BadRequest("queue id must be an integer"))
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, offline.ErrNotFound) {
			response.Error(w, apierror.NotFound("queued submission not found"))
			return
		}
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

// Sync handles POST /api/v1/sync - user-triggered replay.
func (h *AgentHandler) Sync(w http.ResponseWriter, r *http.Request) {
	remaining, err := h.replayer.Run(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"remaining": remaining,
	})
}
