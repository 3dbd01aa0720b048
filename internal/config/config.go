package config

import "time"

// CollectorConfig is the root configuration for a collector instance.
type CollectorConfig struct {
	Instance   InstanceConfig   `yaml:"instance"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Database   DatabaseConfig   `yaml:"database"`
	Collection CollectionConfig `yaml:"collection"`
	Reference  ReferenceConfig  `yaml:"reference"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Health     HealthConfig     `yaml:"health"`
}

// InstanceConfig identifies this collector.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// GatewayConfig holds market-data gateway settings.
type GatewayConfig struct {
	URL              string        `yaml:"url"`
	Token            string        `yaml:"token"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	PingTimeout      time.Duration `yaml:"ping_timeout"`
}

// DatabaseConfig holds both database connections: reference data (metals,
// spreads, schedules) and the time-series tick store.
type DatabaseConfig struct {
	Reference  DBConfig `yaml:"reference"`
	Timeseries DBConfig `yaml:"timeseries"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CollectionConfig holds batch-fetch and scheduler settings.
type CollectionConfig struct {
	BatchSize      int           `yaml:"batch_size"`
	BatchDelay     time.Duration `yaml:"batch_delay"`
	PollTick       time.Duration `yaml:"poll_tick"`
	ActiveLookback time.Duration `yaml:"active_lookback"`
	InactiveAfter  time.Duration `yaml:"inactive_after"`
}

// ReferenceConfig holds the benchmark instruments used to resolve
// prompt dates.
type ReferenceConfig struct {
	ThreeMonthTicker string `yaml:"three_month_ticker"`
	CashTicker       string `yaml:"cash_ticker"`
}

// CalendarConfig holds the exchange holiday calendar.
type CalendarConfig struct {
	Holidays []string `yaml:"holidays"` // ISO dates (2006-01-02)
	FromYear int      `yaml:"from_year"`
	ToYear   int      `yaml:"to_year"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
