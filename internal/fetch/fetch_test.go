package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jharlow/lme-data/internal/session"
)

type fakeGateway struct {
	calls [][]string
	data  map[string]session.FieldMap
	errs  []session.SecurityError
	fail  error
}

func (g *fakeGateway) Fetch(ctx context.Context, securities, fields []string) (map[string]session.FieldMap, []session.SecurityError, error) {
	g.calls = append(g.calls, append([]string(nil), securities...))
	if g.fail != nil {
		return nil, nil, g.fail
	}
	out := make(map[string]session.FieldMap, len(securities))
	for _, s := range securities {
		if fm, ok := g.data[s]; ok {
			out[s] = fm
		}
	}
	return out, g.errs, nil
}

func TestFetchAll_Chunking(t *testing.T) {
	gw := &fakeGateway{data: map[string]session.FieldMap{}}
	tickers := make([]string, 7)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("LMCADS T%d Comdty", i)
		gw.data[tickers[i]] = session.FieldMap{FieldBid: 1.0}
	}

	f := New(gw, WithBatchSize(3), WithBatchDelay(time.Microsecond))
	data, secErrs, err := f.FetchAll(context.Background(), tickers, DefaultFields())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(secErrs) != 0 {
		t.Errorf("secErrs = %v, want none", secErrs)
	}

	if len(gw.calls) != 3 {
		t.Fatalf("gateway calls = %d, want 3", len(gw.calls))
	}
	sizes := []int{len(gw.calls[0]), len(gw.calls[1]), len(gw.calls[2])}
	if sizes[0] != 3 || sizes[1] != 3 || sizes[2] != 1 {
		t.Errorf("chunk sizes = %v, want [3 3 1]", sizes)
	}
	if len(data) != 7 {
		t.Errorf("len(data) = %d, want 7", len(data))
	}
}

func TestFetchAll_TransportErrorAborts(t *testing.T) {
	failure := errors.New("gateway down")
	gw := &fakeGateway{fail: failure}

	f := New(gw, WithBatchSize(2), WithBatchDelay(time.Microsecond))
	_, _, err := f.FetchAll(context.Background(), []string{"A", "B", "C"}, DefaultFields())
	if !errors.Is(err, failure) {
		t.Fatalf("FetchAll() error = %v, want wrapped %v", err, failure)
	}
	if len(gw.calls) != 1 {
		t.Errorf("gateway calls = %d, want 1 (abort after first failure)", len(gw.calls))
	}
}

func TestActive(t *testing.T) {
	tests := []struct {
		name string
		fm   session.FieldMap
		want bool
	}{
		{"bid only", session.FieldMap{FieldBid: 9855.0}, true},
		{"ask only", session.FieldMap{FieldAsk: 9860.0}, true},
		{"last price with open interest", session.FieldMap{FieldLastPrice: 9857.0, FieldOpenInterest: 12.0}, true},
		{"last price without open interest", session.FieldMap{FieldLastPrice: 9857.0}, false},
		{"last price with zero open interest", session.FieldMap{FieldLastPrice: 9857.0, FieldOpenInterest: 0.0}, false},
		{"open interest alone", session.FieldMap{FieldOpenInterest: 12.0}, false},
		{"empty", session.FieldMap{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Active(tt.fm); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionVolume(t *testing.T) {
	today := time.Date(2025, 7, 18, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		fm   session.FieldMap
		want int64
	}{
		{"updated today", session.FieldMap{FieldVolume: 120.0, FieldLastUpdate: "2025-07-18"}, 120},
		{"stale update", session.FieldMap{FieldVolume: 120.0, FieldLastUpdate: "2025-07-17"}, 0},
		{"no update date", session.FieldMap{FieldVolume: 120.0}, 0},
		{"no volume", session.FieldMap{FieldLastUpdate: "2025-07-18"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionVolume(tt.fm, today); got != tt.want {
				t.Errorf("SessionVolume() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildTick(t *testing.T) {
	now := time.Date(2025, 7, 18, 14, 30, 0, 0, time.UTC)
	fm := session.FieldMap{
		FieldBid:          9855.0,
		FieldAsk:          9860.5,
		FieldBidSize:      5.0,
		FieldVolume:       120.0,
		FieldTradingDate:  "2025-07-18",
		FieldLastUpdate:   "2025-07-18",
		FieldOpenInterest: 42.0,
		FieldSpreadBP:     5.6,
	}

	tick := BuildTick(17, fm, now, now)

	if tick.SpreadID != 17 || !tick.Timestamp.Equal(now) {
		t.Errorf("identity fields = %+v", tick)
	}
	if tick.Bid == nil || *tick.Bid != 9855.0 {
		t.Errorf("Bid = %v, want 9855", tick.Bid)
	}
	if tick.LastPrice != nil {
		t.Errorf("LastPrice = %v, want nil for absent field", tick.LastPrice)
	}
	if tick.AskSize != nil {
		t.Errorf("AskSize = %v, want nil for absent field", tick.AskSize)
	}
	if tick.Volume != 120 || tick.SessionVolume != 120 {
		t.Errorf("Volume/SessionVolume = %d/%d, want 120/120", tick.Volume, tick.SessionVolume)
	}
	if !tick.SessionDate.Equal(time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("SessionDate = %v", tick.SessionDate)
	}
	if tick.ContractValue != nil {
		t.Errorf("ContractValue = %v, want nil", tick.ContractValue)
	}
}

func TestBuildTick_StaleVolumeZeroed(t *testing.T) {
	now := time.Date(2025, 7, 18, 9, 0, 0, 0, time.UTC)
	fm := session.FieldMap{
		FieldBid:        9855.0,
		FieldVolume:     300.0,
		FieldLastUpdate: "2025-07-15",
	}

	tick := BuildTick(9, fm, now, now)
	if tick.Volume != 300 {
		t.Errorf("Volume = %d, want raw 300", tick.Volume)
	}
	if tick.SessionVolume != 0 {
		t.Errorf("SessionVolume = %d, want 0 for stale update", tick.SessionVolume)
	}
}
