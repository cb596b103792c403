// Package metrics provides constants used across metric definitions.
package metrics

// Operation type constants used across metrics.
const (
	// OpEventCreate represents event creation.
	OpEventCreate = "event_create"
	// OpEventGet represents single event lookups.
	OpEventGet = "event_get"
	// OpEventList represents event range queries.
	OpEventList = "event_list"
	// OpEventUpdate represents partial event updates.
	OpEventUpdate = "event_update"
	// OpEventDelete represents event deletion.
	OpEventDelete = "event_delete"
	// OpNoteUpsert represents the replace-or-create note intent.
	OpNoteUpsert = "note_upsert"
	// OpNoteAppend represents the always-create note intent.
	OpNoteAppend = "note_append"
	// OpNoteGet represents note retrieval operations.
	OpNoteGet = "note_get"
	// OpNoteUpdate represents note update operations.
	OpNoteUpdate = "note_update"
	// OpNoteDelete represents note deletion operations.
	OpNoteDelete = "note_delete"
	// OpSettingGet represents setting reads.
	OpSettingGet = "setting_get"
	// OpSettingSet represents setting writes.
	OpSettingSet = "setting_set"
	// OpSettingList represents listing all settings.
	OpSettingList = "setting_list"
	// OpHolidayLookup represents holiday lookups for a country and year.
	OpHolidayLookup = "holiday_lookup"
	// OpHolidayCompute represents evaluating a country rule set.
	OpHolidayCompute = "holiday_compute"
	// OpCalculate represents calculator evaluations.
	OpCalculate = "calculate"
	// OpCacheWarmup represents scheduled cache warm-up runs.
	OpCacheWarmup = "cache_warmup"
)

// Label value constants used for metric labels.
const (
	// StatusSuccess marks a successful operation.
	StatusSuccess = "success"
	// StatusError marks a failed operation.
	StatusError = "error"
	// StatusNotFound marks an operation whose target did not exist.
	StatusNotFound = "not_found"
	// StatusInvalid marks an operation rejected by validation.
	StatusInvalid = "invalid"

	// LabelCommitted is the transaction label for committed transactions.
	LabelCommitted = "committed"
	// LabelRollback is the transaction label for rolled back transactions.
	LabelRollback = "rollback"

	// LabelHit is the cache result label for hits.
	LabelHit = "hit"
	// LabelMiss is the cache result label for misses.
	LabelMiss = "miss"

	// TableEvents is the table label for events.
	TableEvents = "events"
	// TableNotes is the table label for notes.
	TableNotes = "notes"
	// TableSettings is the table label for settings.
	TableSettings = "settings"
)

// Histogram bucket configuration constants.
const (
	// BucketStart100us is the starting bucket for 0.1ms histograms (0.1ms to ~400ms range).
	BucketStart100us = 0.0001
	// BucketStart1ms is the starting bucket for 1ms histograms.
	BucketStart1ms = 0.001
	// BucketStart100B is the starting bucket for 100 byte histograms.
	BucketStart100B = 100.0

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketFactor10 is the exponential growth factor of 10 for larger ranges.
	BucketFactor10 = 10

	// BucketCount8 defines 8 exponential buckets.
	BucketCount8 = 8
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
	// BucketCount15 defines 15 exponential buckets.
	BucketCount15 = 15
)
