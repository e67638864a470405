package analytics

import (
	"sort"
	"time"

	"partnerhub/internal/lifecycle"
	"partnerhub/internal/model"
)

// Summary is the portal-wide aggregate for one partner.
type Summary struct {
	TotalEvents        int           `json:"total_events"`
	UpcomingEvents     int           `json:"upcoming_events"`
	PastEvents         int           `json:"past_events"`
	DraftEvents        int           `json:"draft_events"`
	CancelledEvents    int           `json:"cancelled_events"`
	TotalOffers        int           `json:"total_offers"`
	ActiveOffers       int           `json:"active_offers"`
	ExpiredOffers      int           `json:"expired_offers"`
	TotalParticipants  int           `json:"total_participants"`
	Revenue            []RevenueLine `json:"revenue"`
	RegistrationGrowth *float64      `json:"registration_growth,omitempty"`
	MonthlySeries      []MonthBucket `json:"monthly_registrations"`
}

// RevenueLine keeps totals per currency. Amounts in different currencies are
// never folded into one figure.
type RevenueLine struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

type MonthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// EventStats is the per-event aggregate.
type EventStats struct {
	EventID      int64   `json:"event_id"`
	Participants int     `json:"participants"`
	Capacity     int     `json:"capacity"`
	FillRate     float64 `json:"fill_rate"`
	Revenue      float64 `json:"revenue"`
	Currency     string  `json:"currency"`
}

// BuildSummary folds a partner's events, offers and registration counts into
// one Summary. regCounts maps event ID to its participant count.
func BuildSummary(events []model.Event, offers []model.Offer, regCounts map[int64]int, regTimes []time.Time, now time.Time) Summary {
	s := Summary{TotalEvents: len(events), TotalOffers: len(offers)}

	for i := range events {
		switch lifecycle.Classify(&events[i], now) {
		case lifecycle.BucketUpcoming:
			s.UpcomingEvents++
		case lifecycle.BucketPast:
			s.PastEvents++
		case lifecycle.BucketDraft:
			s.DraftEvents++
		case lifecycle.BucketCancelled:
			s.CancelledEvents++
		}
		s.TotalParticipants += regCounts[events[i].ID]
	}

	for i := range offers {
		if lifecycle.OfferStatus(&offers[i], now) == model.OfferStatusActive {
			s.ActiveOffers++
		} else {
			s.ExpiredOffers++
		}
	}

	s.Revenue = RevenueByCurrency(events, regCounts)
	s.MonthlySeries = MonthlySeries(regTimes, 6, now)
	s.RegistrationGrowth = MonthOverMonthGrowth(regTimes, now)
	return s
}

// RevenueByCurrency sums price * participants per currency code, sorted by
// code for a stable response.
func RevenueByCurrency(events []model.Event, regCounts map[int64]int) []RevenueLine {
	byCurrency := make(map[string]float64)
	for i := range events {
		e := &events[i]
		count := regCounts[e.ID]
		if count == 0 || e.Price == 0 {
			continue
		}
		byCurrency[e.Currency] += e.Price * float64(count)
	}

	lines := make([]RevenueLine, 0, len(byCurrency))
	for currency, amount := range byCurrency {
		lines = append(lines, RevenueLine{Currency: currency, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Currency < lines[j].Currency })
	return lines
}

// MonthlySeries buckets registration timestamps into the last `months`
// calendar months, oldest first. Empty months appear with a zero count.
func MonthlySeries(regTimes []time.Time, months int, now time.Time) []MonthBucket {
	series := make([]MonthBucket, 0, months)
	counts := make(map[string]int)
	for _, t := range regTimes {
		counts[t.Format("2006-01")]++
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		series = append(series, MonthBucket{Month: key, Count: counts[key]})
	}
	return series
}

// MonthOverMonthGrowth compares registrations in the last 30 days against the
// 30 days before that. Computed from stored rows; nil when the prior window is
// empty, because a percentage against zero is meaningless.
func MonthOverMonthGrowth(regTimes []time.Time, now time.Time) *float64 {
	windowStart := now.AddDate(0, 0, -30)
	priorStart := now.AddDate(0, 0, -60)

	var current, prior int
	for _, t := range regTimes {
		switch {
		case !t.Before(windowStart) && !t.After(now):
			current++
		case !t.Before(priorStart) && t.Before(windowStart):
			prior++
		}
	}
	if prior == 0 {
		return nil
	}
	growth := (float64(current) - float64(prior)) / float64(prior) * 100
	return &growth
}

// BuildEventStats computes the aggregate for one event.
func BuildEventStats(e *model.Event, participants int) EventStats {
	stats := EventStats{
		EventID:      e.ID,
		Participants: participants,
		Capacity:     e.Capacity,
		Revenue:      e.Price * float64(participants),
		Currency:     e.Currency,
	}
	if e.Capacity > 0 {
		stats.FillRate = float64(participants) / float64(e.Capacity) * 100
	}
	return stats
}
