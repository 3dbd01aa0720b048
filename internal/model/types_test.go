package model

import (
	"testing"
	"time"
)

func TestMetalByCode(t *testing.T) {
	m, ok := MetalByCode("CU")
	if !ok {
		t.Fatal("MetalByCode(CU) not found")
	}
	if m.BaseTicker != "LMCADS" {
		t.Errorf("BaseTicker = %s, want LMCADS", m.BaseTicker)
	}
	if m.Name != "Copper" {
		t.Errorf("Name = %s, want Copper", m.Name)
	}

	if _, ok := MetalByCode("AU"); ok {
		t.Error("MetalByCode(AU) found, want missing")
	}
}

func TestMetals_Copy(t *testing.T) {
	a := Metals()
	a[0].Code = "XX"

	b := Metals()
	if b[0].Code != "CU" {
		t.Errorf("Metals() shares backing array, got %s", b[0].Code)
	}
}

func TestSpread_Resolved(t *testing.T) {
	var s Spread
	if s.Resolved() {
		t.Error("empty spread reported resolved")
	}

	d1 := time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	s.Leg1Date = &d1
	if s.Resolved() {
		t.Error("half-resolved spread reported resolved")
	}
	s.Leg2Date = &d2
	if !s.Resolved() {
		t.Error("fully resolved spread reported unresolved")
	}
}

func TestCollectionSchedule_Due(t *testing.T) {
	now := time.Date(2025, 7, 18, 12, 0, 0, 0, time.UTC)

	s := CollectionSchedule{NextRun: now, Status: StatusIdle}
	if !s.Due(now) {
		t.Error("schedule at next_run not due")
	}

	s.NextRun = now.Add(time.Minute)
	if s.Due(now) {
		t.Error("future schedule reported due")
	}

	s.NextRun = now.Add(-time.Minute)
	s.Status = StatusRunning
	if s.Due(now) {
		t.Error("running schedule reported due")
	}

	s.Status = StatusErrored
	if !s.Due(now) {
		t.Error("errored schedule with past next_run not due")
	}
}
