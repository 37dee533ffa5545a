package model

// QueuedSubmission is a job card staged in the agent's local store because
// the device was offline at submission time. The record is immutable except
// for the Synced flag, which flips false to true exactly once after the
// remote service confirms acceptance.
type QueuedSubmission struct {
	ID        int64      `json:"id"`
	Timestamp int64      `json:"timestamp"` // milliseconds since epoch, set at insertion
	FormData  FormValues `json:"formData"`
	Synced    bool       `json:"synced"`
}
