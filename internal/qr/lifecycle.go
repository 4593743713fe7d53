package qr

// DefaultScanLimit is the ceiling applied when a record carries no explicit
// scanLimit.
const DefaultScanLimit int64 = 300

// EffectiveLimit returns the record's scan ceiling, falling back to the
// default when none was set.
func EffectiveLimit(scanLimit *int64) int64 {
	if scanLimit != nil {
		return *scanLimit
	}
	return DefaultScanLimit
}

type LifecycleDecision struct {
	Allowed       bool
	ShouldDisable bool
}

// CheckLifecycle decides whether a record may still be served. It must run on
// the post-increment count: the very increment that crosses the limit flips
// ShouldDisable, so under concurrent scans every caller past the limit
// independently reaches the same decision and the disable write is idempotent.
func CheckLifecycle(rec *ResolvedRecord, postIncrementCount int64) LifecycleDecision {
	allowed := rec.Active && postIncrementCount <= EffectiveLimit(rec.ScanLimit)
	return LifecycleDecision{
		Allowed:       allowed,
		ShouldDisable: !allowed,
	}
}
