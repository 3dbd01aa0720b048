package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGatewayURL       = "wss://gateway.internal:8194/md"
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultRequestTimeout   = 30 * time.Second
	DefaultPingTimeout      = 90 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultBatchSize        = 50
	DefaultBatchDelay       = 200 * time.Millisecond
	DefaultPollTick         = 10 * time.Second
	DefaultActiveLookback   = 1 * time.Hour
	DefaultInactiveAfter    = 30 * 24 * time.Hour
	DefaultThreeMonthTicker = "LMCADS03 Comdty"
	DefaultCashTicker       = "LMCADY Comdty"
	DefaultCalendarFromYear = 2020
	DefaultCalendarToYear   = 2035
	DefaultHealthPort       = 8080
	DefaultHealthPath       = "/healthz"
)

func (c *CollectorConfig) applyDefaults() {
	if c.Gateway.URL == "" {
		c.Gateway.URL = DefaultGatewayURL
	}
	if c.Gateway.HandshakeTimeout == 0 {
		c.Gateway.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = DefaultWriteTimeout
	}
	if c.Gateway.RequestTimeout == 0 {
		c.Gateway.RequestTimeout = DefaultRequestTimeout
	}
	if c.Gateway.PingTimeout == 0 {
		c.Gateway.PingTimeout = DefaultPingTimeout
	}

	applyDBDefaults(&c.Database.Reference)
	applyDBDefaults(&c.Database.Timeseries)

	if c.Collection.BatchSize == 0 {
		c.Collection.BatchSize = DefaultBatchSize
	}
	if c.Collection.BatchDelay == 0 {
		c.Collection.BatchDelay = DefaultBatchDelay
	}
	if c.Collection.PollTick == 0 {
		c.Collection.PollTick = DefaultPollTick
	}
	if c.Collection.ActiveLookback == 0 {
		c.Collection.ActiveLookback = DefaultActiveLookback
	}
	if c.Collection.InactiveAfter == 0 {
		c.Collection.InactiveAfter = DefaultInactiveAfter
	}

	if c.Reference.ThreeMonthTicker == "" {
		c.Reference.ThreeMonthTicker = DefaultThreeMonthTicker
	}
	if c.Reference.CashTicker == "" {
		c.Reference.CashTicker = DefaultCashTicker
	}

	if c.Calendar.FromYear == 0 {
		c.Calendar.FromYear = DefaultCalendarFromYear
	}
	if c.Calendar.ToYear == 0 {
		c.Calendar.ToYear = DefaultCalendarToYear
	}

	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
	if c.Health.Path == "" {
		c.Health.Path = DefaultHealthPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
