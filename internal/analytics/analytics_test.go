package analytics

import (
	"math"
	"testing"
	"time"

	"partnerhub/internal/model"
)

func TestRevenueByCurrency_NeverCrossesCurrencies(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: 1, Price: 10, Currency: "EUR"},
		{ID: 2, Price: 20, Currency: "USD"},
		{ID: 3, Price: 5, Currency: "EUR"},
	}
	counts := map[int64]int{1: 3, 2: 2, 3: 4}

	lines := RevenueByCurrency(events, counts)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (one per currency)", len(lines))
	}
	// Sorted by code: EUR then USD.
	if lines[0].Currency != "EUR" || lines[0].Amount != 50 {
		t.Fatalf("EUR line = %+v, want 50 EUR", lines[0])
	}
	if lines[1].Currency != "USD" || lines[1].Amount != 40 {
		t.Fatalf("USD line = %+v, want 40 USD", lines[1])
	}
}

func TestRevenueByCurrency_SkipsFreeAndEmptyEvents(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		{ID: 1, Price: 0, Currency: "EUR"},
		{ID: 2, Price: 10, Currency: "EUR"},
	}
	lines := RevenueByCurrency(events, map[int64]int{1: 5})
	if len(lines) != 0 {
		t.Fatalf("got %+v, want no revenue lines", lines)
	}
}

func TestMonthlySeries_FillsEmptyMonths(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC),
	}

	series := MonthlySeries(times, 4, now)
	if len(series) != 4 {
		t.Fatalf("got %d buckets, want 4", len(series))
	}
	want := []MonthBucket{
		{Month: "2026-03", Count: 0},
		{Month: "2026-04", Count: 1},
		{Month: "2026-05", Count: 0},
		{Month: "2026-06", Count: 2},
	}
	for i := range want {
		if series[i] != want[i] {
			t.Fatalf("bucket %d = %+v, want %+v", i, series[i], want[i])
		}
	}
}

func TestMonthOverMonthGrowth(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)

	var times []time.Time
	// 4 in the prior window, 6 in the current one: +50%.
	for i := 0; i < 4; i++ {
		times = append(times, now.AddDate(0, 0, -45))
	}
	for i := 0; i < 6; i++ {
		times = append(times, now.AddDate(0, 0, -5))
	}

	growth := MonthOverMonthGrowth(times, now)
	if growth == nil {
		t.Fatal("expected growth figure, got nil")
	}
	if math.Abs(*growth-50) > 0.001 {
		t.Fatalf("growth = %.3f, want 50", *growth)
	}
}

func TestMonthOverMonthGrowth_NilWhenPriorWindowEmpty(t *testing.T) {
	t.Parallel()

	now := time.Now()
	times := []time.Time{now.AddDate(0, 0, -3), now.AddDate(0, 0, -7)}
	if growth := MonthOverMonthGrowth(times, now); growth != nil {
		t.Fatalf("growth = %v, want nil against an empty prior window", *growth)
	}
}

func TestBuildSummary_BucketsAndOffers(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cancelledAt := now.Add(-time.Hour)
	expired := now.Add(-time.Hour)

	events := []model.Event{
		{ID: 1, Status: model.EventStatusActive, StartDate: now.Add(24 * time.Hour), EndDate: now.Add(26 * time.Hour)},
		{ID: 2, Status: model.EventStatusActive, StartDate: now.Add(-26 * time.Hour), EndDate: now.Add(-24 * time.Hour)},
		{ID: 3, Status: model.EventStatusActive, DraftMode: true, StartDate: now.Add(24 * time.Hour), EndDate: now.Add(26 * time.Hour)},
		{ID: 4, Status: model.EventStatusCancelled, StartDate: now.Add(24 * time.Hour), EndDate: now.Add(26 * time.Hour), CancelledAt: &cancelledAt},
	}
	offers := []model.Offer{
		{ID: 1},
		{ID: 2, ExpiryDate: &expired},
	}
	counts := map[int64]int{1: 5, 2: 3}

	s := BuildSummary(events, offers, counts, nil, now)
	if s.TotalEvents != 4 || s.UpcomingEvents != 1 || s.PastEvents != 1 || s.DraftEvents != 1 || s.CancelledEvents != 1 {
		t.Fatalf("bucket counts wrong: %+v", s)
	}
	if s.ActiveOffers != 1 || s.ExpiredOffers != 1 {
		t.Fatalf("offer counts wrong: %+v", s)
	}
	if s.TotalParticipants != 8 {
		t.Fatalf("participants = %d, want 8", s.TotalParticipants)
	}
	if s.RegistrationGrowth != nil {
		t.Fatalf("growth should be nil with no registrations")
	}
}

func TestBuildEventStats(t *testing.T) {
	t.Parallel()

	e := model.Event{ID: 9, Capacity: 40, Price: 12.5, Currency: "GBP"}
	stats := BuildEventStats(&e, 10)
	if stats.Revenue != 125 {
		t.Fatalf("revenue = %v, want 125", stats.Revenue)
	}
	if stats.FillRate != 25 {
		t.Fatalf("fill rate = %v, want 25", stats.FillRate)
	}
	if stats.Currency != "GBP" {
		t.Fatalf("currency = %q", stats.Currency)
	}
}
