package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/session"
)

type fakeSearch struct {
	results map[string][]session.SearchResult // keyed by query
	all     []session.SearchResult            // returned for every query when results is nil
	queries []string
	fail    error
}

func (f *fakeSearch) Search(ctx context.Context, query, filter string) ([]session.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.fail != nil {
		return nil, f.fail
	}
	if f.results != nil {
		return f.results[query], nil
	}
	return f.all, nil
}

type fakeRegistry struct {
	upserts []model.Spread
	known   map[string]bool
}

func (f *fakeRegistry) Upsert(ctx context.Context, sp *model.Spread) (bool, error) {
	sp.ID = int64(len(f.upserts) + 1)
	f.upserts = append(f.upserts, *sp)
	if f.known[sp.Ticker] {
		return false, nil
	}
	return true, nil
}

func TestRun_FiltersAndRegistersSpreads(t *testing.T) {
	cu, _ := model.MetalByCode("CU")
	now := time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)

	gw := &fakeSearch{all: []session.SearchResult{
		{Ticker: "LMCADS 03F26 Comdty", Description: "3M/Jan26"},
		{Ticker: "LMCADS F26G26 Comdty", Description: "Jan26/Feb26"},
		{Ticker: "LMCADS03 Comdty", Description: "3M outright"}, // not a spread
		{Ticker: "LMCADS 00-250722 Comdty", Description: "Cash/Odd"},
	}}
	reg := &fakeRegistry{}

	res, err := New(gw, reg, nil).Run(context.Background(), cu, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// base + 12 month codes + "03" + "00" + 3 year patterns
	if res.Queries != 18 {
		t.Errorf("Queries = %d, want 18", res.Queries)
	}
	// Every query returns the same 4 tickers; dedupe keeps 4 candidates.
	if res.Candidates != 4 {
		t.Errorf("Candidates = %d, want 4", res.Candidates)
	}
	if res.Spreads != 3 {
		t.Errorf("Spreads = %d, want 3", res.Spreads)
	}
	if res.Created != 3 {
		t.Errorf("Created = %d, want 3", res.Created)
	}
	if len(reg.upserts) != 3 {
		t.Fatalf("upserts = %d, want 3", len(reg.upserts))
	}

	first := reg.upserts[0]
	if first.MetalCode != "CU" || first.NominalType != "3M-3W" {
		t.Errorf("first upsert = %+v, want CU 3M-3W", first)
	}
}

func TestRun_QueryPatterns(t *testing.T) {
	cu, _ := model.MetalByCode("CU")
	now := time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)

	gw := &fakeSearch{}
	if _, err := New(gw, &fakeRegistry{}, nil).Run(context.Background(), cu, now); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"LMCADS", "LMCADS F", "LMCADS Z", "LMCADS 03", "LMCADS 00", "LMCADS 25", "LMCADS 27"}
	for _, q := range want {
		found := false
		for _, got := range gw.queries {
			if got == q {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("query %q not issued; got %v", q, gw.queries)
		}
	}
	for _, got := range gw.queries {
		if !strings.HasPrefix(got, "LMCADS") {
			t.Errorf("query %q does not carry the metal prefix", got)
		}
	}
}

func TestRun_RediscoveryNotCounted(t *testing.T) {
	cu, _ := model.MetalByCode("CU")
	now := time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)

	gw := &fakeSearch{all: []session.SearchResult{
		{Ticker: "LMCADS 03F26 Comdty"},
	}}
	reg := &fakeRegistry{known: map[string]bool{"LMCADS 03F26 Comdty": true}}

	res, err := New(gw, reg, nil).Run(context.Background(), cu, now)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Spreads != 1 || res.Created != 0 {
		t.Errorf("Spreads/Created = %d/%d, want 1/0", res.Spreads, res.Created)
	}
}

func TestRun_SearchErrorAborts(t *testing.T) {
	cu, _ := model.MetalByCode("CU")
	failure := errors.New("gateway down")
	gw := &fakeSearch{fail: failure}

	_, err := New(gw, &fakeRegistry{}, nil).Run(context.Background(), cu, time.Now())
	if !errors.Is(err, failure) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, failure)
	}
	if len(gw.queries) != 1 {
		t.Errorf("queries issued = %d, want 1 (abort on first failure)", len(gw.queries))
	}
}
