package domain

// DefaultTimeColumn is the event-time column every collection carries unless the
// project overrides it.
const DefaultTimeColumn = "_time"

// ProjectConfig holds per-deployment project settings consumed by the indexer.
type ProjectConfig struct {
	TimeColumn string
}

// DefaultProjectConfig returns the stock project settings.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{TimeColumn: DefaultTimeColumn}
}
