package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q (got %q)", StorageSQLite, StorageMemory, c.Storage.Driver)
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}

	if c.AI.RequestsPerSecond < 0 {
		return fmt.Errorf("ai.rate must be >= 0 (got %v)", c.AI.RequestsPerSecond)
	}

	return nil
}

func (s *SRSConfig) validate() error {
	if s.MaxIntervalDays <= 0 {
		return fmt.Errorf("max_interval_days must be > 0 (got %d)", s.MaxIntervalDays)
	}
	if s.MaxStage <= 0 {
		return fmt.Errorf("max_stage must be > 0 (got %d)", s.MaxStage)
	}
	if s.SessionLimit <= 0 {
		return fmt.Errorf("session_limit must be > 0 (got %d)", s.SessionLimit)
	}
	return nil
}
