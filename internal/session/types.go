package session

import (
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrNotConnected   = errors.New("session not connected")
	ErrStale          = errors.New("session stale (no ping)")
	ErrRequestTimeout = errors.New("request timeout")
	ErrAlreadyClosed  = errors.New("session already closed")
)

// RequestError is a terminal error event for a whole request.
type RequestError struct {
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("gateway request error %s: %s", e.Code, e.Message)
}

// SecurityError is a per-ticker error inside an otherwise successful batch
// response. It never fails the batch.
type SecurityError struct {
	Ticker  string
	Code    string
	Message string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security error for %s (%s): %s", e.Ticker, e.Code, e.Message)
}

// Config configures a gateway session.
type Config struct {
	URL              string        // Gateway websocket URL
	Token            string        // Bearer token for the handshake
	HandshakeTimeout time.Duration // Dial timeout
	WriteTimeout     time.Duration // Write deadline for sends
	RequestTimeout   time.Duration // Max wall time for one request drain
	PingTimeout      time.Duration // Max time without ping before stale
	EventBuffer      int           // Per-request event channel buffer
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     5 * time.Second,
		RequestTimeout:   60 * time.Second,
		PingTimeout:      60 * time.Second,
		EventBuffer:      64,
	}
}

// request is the wire shape of a gateway request.
type request struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"` // "search" or "refdata"
	Query      string   `json:"query,omitempty"`
	Filter     string   `json:"filter,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
	Securities []string `json:"securities,omitempty"`
	Fields     []string `json:"fields,omitempty"`
}

// Request types.
const (
	typeSearch  = "search"
	typeRefdata = "refdata"
)

// Event kinds. A request produces zero or more partial responses and ends
// with exactly one terminal response or error.
const (
	eventPartial = "partial_response"
	eventFinal   = "response"
	eventError   = "error"
)

// event is the wire shape of one gateway response event.
type event struct {
	ID           string         `json:"id"`
	Event        string         `json:"event"`
	Error        *wireError     `json:"error,omitempty"`
	Results      []SearchResult `json:"results,omitempty"`
	SecurityData []securityData `json:"security_data,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchResult is one instrument returned by a search request.
type SearchResult struct {
	Ticker      string `json:"security"`
	Description string `json:"description"`
}

// securityData is one security's slot in a refdata response.
type securityData struct {
	Security      string         `json:"security"`
	Fields        map[string]any `json:"fields,omitempty"`
	SecurityError *wireError     `json:"security_error,omitempty"`
}

// FieldMap holds one security's typed field values as decoded from JSON:
// numbers arrive as float64, dates as ISO strings.
type FieldMap map[string]any

// Has reports whether the vendor returned the field at all.
func (fm FieldMap) Has(name string) bool {
	v, ok := fm[name]
	return ok && v != nil
}

// Float returns a numeric field as float64.
func (fm FieldMap) Float(name string) (float64, bool) {
	switch v := fm[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Int returns a numeric field truncated to int64.
func (fm FieldMap) Int(name string) (int64, bool) {
	f, ok := fm.Float(name)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// Str returns a string field.
func (fm FieldMap) Str(name string) (string, bool) {
	s, ok := fm[name].(string)
	return s, ok
}

// Date returns a date field delivered as an ISO "2006-01-02" string.
func (fm FieldMap) Date(name string) (time.Time, bool) {
	s, ok := fm.Str(name)
	if !ok {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// PromptDates is the benchmark prompt-date pair for one metal.
type PromptDates struct {
	ThreeMonth time.Time
	Cash       time.Time
}
