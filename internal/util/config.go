package util

// Config holds runtime settings and flags.
type Config struct {
	DSN          string
	GeminiAPIKey string
	Offline      bool   // no generation provider available
	Theme        string // persisted UI theme, empty picks the default
}
