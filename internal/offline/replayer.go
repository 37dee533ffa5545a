package offline

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
)

// Submitter delivers a job card payload to the remote submission service.
type Submitter interface {
	Submit(ctx context.Context, form model.FormValues) (model.SubmitResult, error)
}

// Replayer drains the local submission store against the submission service
// once connectivity is available. Records are replayed strictly
// sequentially; a failing record is left queued and never blocks the rest.
type Replayer struct {
	store     *Store
	submitter Submitter
	running   atomic.Bool
}

// NewReplayer creates a sync replayer over the given store and submitter.
func NewReplayer(store *Store, submitter Submitter) *Replayer {
	return &Replayer{store: store, submitter: submitter}
}

// Run performs one replay pass and returns the number of records still
// unsynced afterwards. Overlapping invocations (connectivity flapping)
// collapse: if a pass is already in flight the call returns the current
// pending count without replaying anything.
func (r *Replayer) Run(ctx context.Context) (int, error) {
	if !r.running.CompareAndSwap(false, true) {
		return r.store.CountUnsynced(ctx)
	}
	defer r.running.Store(false)

	pending, err := r.store.ListUnsynced(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	log.Printf("[SyncReplayer] Replaying %d queued submission(s)", len(pending))

	for _, sub := range pending {
		form := sub.FormData
		form.SyncedFromOffline = true

		result, err := r.submitter.Submit(ctx, form)
		if err != nil {
			// Left queued; the next online transition retries naturally.
			log.Printf("[SyncReplayer] Submission %d failed, keeping queued: %v", sub.ID, err)
			continue
		}

		if err := r.store.MarkSynced(ctx, sub.ID); err != nil {
			// Remote accepted but the local flag did not stick; the record
			// will be resubmitted on the next pass.
			log.Printf("[SyncReplayer] Submission %d delivered (job card %s) but not marked synced: %v",
				sub.ID, result.JobCardID, err)
			continue
		}

		log.Printf("[SyncReplayer] Submission %d delivered as job card %s", sub.ID, result.JobCardID)
	}

	remaining, err := r.store.ListUnsynced(ctx)
	if err != nil {
		return 0, err
	}
	if len(remaining) > 0 {
		log.Printf("[SyncReplayer] %d submission(s) still queued", len(remaining))
	}
	return len(remaining), nil
}
