package relay

import "time"

// SubmittedBundleStatus is the lifecycle status of a submitted bundle in
// local storage.
type SubmittedBundleStatus string

const (
	// Submitted means a relay accepted the bundle and confirmation is
	// still pending.
	Submitted SubmittedBundleStatus = "Submitted"
	// Confirmed means one of the confirmation sources reported durable
	// inclusion.
	Confirmed SubmittedBundleStatus = "Confirmed"
	// NotConfirmed means the confirmation wait timed out. The bundle may
	// still land later.
	NotConfirmed SubmittedBundleStatus = "NotConfirmed"
	// ErrorOnSubmit means all submission attempts were exhausted without
	// any relay accepting the bundle.
	ErrorOnSubmit SubmittedBundleStatus = "ErrorOnSubmit"
)

// BundleInfo is the stored record of one submission.
type BundleInfo struct {
	BundleID     string                `json:"bundle_id"`
	FeeSignature string                `json:"fee_signature"`
	Endpoint     string                `json:"endpoint"`
	Status       SubmittedBundleStatus `json:"status"`
	Source       string                `json:"source,omitempty"`
	Message      string                `json:"message,omitempty"`
	SubmitTime   time.Time             `json:"submit_time"`
}

// Storage is the local submission history. It backs the status command, the
// webserver and the storage-derived metrics.
type Storage interface {
	// SetBundleStatus upserts the record and maintains the pending/failed
	// queues according to info.Status.
	SetBundleStatus(info BundleInfo) error
	GetBundle(bundleID string) (*BundleInfo, bool, error)
	GetAllPendingBundles() ([]*BundleInfo, error)
	GetAllFailedBundles() ([]*BundleInfo, error)
	Close() error
}
