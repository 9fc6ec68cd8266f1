// Package pipeline drives the scan → confirm → transcode → commit/rollback
// loop, one candidate at a time.
//
// Per candidate the [Driver] walks the states
//
//	DISCOVERED → (CONFIRM?) → {SKIPPED | TRANSCODING} → {COMMITTED | FAILED}
//
// Candidates come from a lazy [Scanner] sequence; confirmation is a
// pluggable [Confirmer]; the [Reconciler] either moves the transcoded file
// over the original or discards it and records the path in the [SkipLog].
// Once a transcode has been attempted exactly one of COMMITTED or FAILED
// holds. A candidate that cannot be re-stat'ed ends in INFO_ERROR before the
// prompt, and a dry run stops every candidate at LISTED.
package pipeline
