package domain

import "time"

// SyncOutcome is the result of one sync attempt for one source.
type SyncOutcome struct {
	// SourceID is the source that was synced.
	SourceID string

	// Collected is how many qupts the handler returned.
	Collected int

	// Inserted is how many qupts were actually stored. Lower than
	// Collected when the batch contained already-ingested external IDs.
	Inserted int

	// Cursor is the handler's returned cursor, persisted for the next run.
	Cursor string
}

// SyncRun summarises one scheduler tick over all enabled sources.
// This is the only place aggregate success/failure counts are computed.
type SyncRun struct {
	// ID is the unique identifier for the run.
	ID string

	// StartedAt is when the tick began.
	StartedAt time.Time

	// EndedAt is when the last source attempt finished.
	EndedAt time.Time

	// Succeeded counts sources that synced without error.
	Succeeded int

	// Failed counts sources whose attempt errored.
	Failed int

	// QuptsInserted is the total new qupts stored across the run.
	QuptsInserted int
}

// SchedulerConfig controls the scheduler driver.
type SchedulerConfig struct {
	// Interval between scheduler ticks.
	Interval time.Duration

	// Enabled controls whether the scheduler runs at all.
	Enabled bool
}
