package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *CollectorConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}
	if c.Gateway.URL == "" {
		return errors.New("gateway.url is required")
	}

	if err := c.Database.Reference.validate("database.reference"); err != nil {
		return err
	}
	if err := c.Database.Timeseries.validate("database.timeseries"); err != nil {
		return err
	}

	if c.Collection.BatchSize < 1 {
		return errors.New("collection.batch_size must be >= 1")
	}
	if c.Collection.BatchDelay < 0 {
		return errors.New("collection.batch_delay cannot be negative")
	}
	if c.Collection.PollTick < time.Second {
		return errors.New("collection.poll_tick must be >= 1s")
	}

	if c.Calendar.FromYear > c.Calendar.ToYear {
		return fmt.Errorf("calendar.from_year (%d) cannot exceed to_year (%d)",
			c.Calendar.FromYear, c.Calendar.ToYear)
	}
	for _, h := range c.Calendar.Holidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			return fmt.Errorf("calendar.holidays: invalid date %q", h)
		}
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
