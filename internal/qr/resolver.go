package qr

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned by a RecordStore when no record exists for an id.
var ErrNotFound = errors.New("qr record not found")

// RecordStore is the persistence boundary the engine requires. The increment
// and fetch must be one atomic operation at the storage layer; it is the only
// mechanism that serializes concurrent scans of the same id.
type RecordStore interface {
	// IncrementScanAndFetch adds 1 to the record's scanCount and returns the
	// post-increment document, or ErrNotFound.
	IncrementScanAndFetch(ctx context.Context, id string) (*QrRecord, error)

	// SetFields applies a partial update to the record.
	SetFields(ctx context.Context, id string, fields map[string]any) error
}

// Resolver orchestrates one scan resolution: atomic increment, normalization,
// lifecycle check, type dispatch. It holds no per-record state and never
// caches; every resolution re-reads current storage state.
type Resolver struct {
	store RecordStore
}

func NewResolver(store RecordStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveScan resolves the record behind id for a scanner with the given user
// agent. A non-nil error means the store failed or timed out; in that case the
// increment may or may not have landed, and the caller must not assume either
// way before retrying. All other conditions, including an unknown id, come
// back as a typed Outcome with a nil error.
func (r *Resolver) ResolveScan(ctx context.Context, id, userAgent string) (Outcome, error) {
	outcome, _, err := r.Resolve(ctx, id, userAgent)
	return outcome, err
}

// Resolve is ResolveScan plus the normalized record, for callers that log or
// publish per-scan events. The record is nil when the id was unknown.
func (r *Resolver) Resolve(ctx context.Context, id, userAgent string) (Outcome, *ResolvedRecord, error) {
	raw, err := r.store.IncrementScanAndFetch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Rejected(ReasonNotFound), nil, nil
		}
		return Outcome{}, nil, err
	}

	resolved := Normalize(raw)

	decision := CheckLifecycle(&resolved, resolved.ScanCount)
	if decision.ShouldDisable {
		// Best effort: a failed disable write still returns the computed
		// rejection, the next scan re-evaluates and retries the write.
		if derr := r.store.SetFields(ctx, id, map[string]any{"active": false}); derr != nil {
			log.Errorf("failed to disable qr %s: %v", id, derr)
		}
	}
	if !decision.Allowed {
		return Rejected(ReasonDisabledOrLimit), &resolved, nil
	}

	return Dispatch(&resolved, RequestContext{UserAgent: userAgent}), &resolved, nil
}
