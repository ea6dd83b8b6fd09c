package config

const (
	// The camp operates on Zambian time; cron schedules use it.
	DefaultTimeZone = "Africa/Lusaka"

	// Nightly reprocess of the stored raw row set.
	DefaultReprocessSchedule = "0 2 * * *"

	// Upload limit for booking report files.
	UploadMaxBytes = 32 << 20

	// Default rule file at the repo root; overridable via RULES_FILE.
	DefaultRulesFile = "rules.yaml"
)
