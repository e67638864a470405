package lifecycle

import (
	"errors"
	"math"
	"testing"
	"time"

	"partnerhub/internal/model"
)

func TestClassify_CancelledWinsOverEverything(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cancelledAt := now.Add(-time.Hour)

	cases := []model.Event{
		{Status: model.EventStatusCancelled, DraftMode: true, StartDate: now.Add(48 * time.Hour), EndDate: now.Add(50 * time.Hour), CancelledAt: &cancelledAt},
		{Status: model.EventStatusCancelled, StartDate: now.Add(-50 * time.Hour), EndDate: now.Add(-48 * time.Hour), CancelledAt: &cancelledAt},
		{Status: model.EventStatusCancelled, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour), CancelledAt: &cancelledAt},
	}
	for i, e := range cases {
		if got := Classify(&e, now); got != BucketCancelled {
			t.Fatalf("case %d: got %q, want cancelled", i, got)
		}
	}
}

func TestClassify_DraftBeatsDates(t *testing.T) {
	t.Parallel()

	now := time.Now()
	e := model.Event{Status: model.EventStatusActive, DraftMode: true, StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-24 * time.Hour)}
	if got := Classify(&e, now); got != BucketDraft {
		t.Fatalf("got %q, want draft", got)
	}
}

func TestClassify_Dates(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cases := []struct {
		name       string
		start, end time.Time
		want       Bucket
	}{
		{"future event", now.Add(24 * time.Hour), now.Add(26 * time.Hour), BucketUpcoming},
		{"finished event", now.Add(-26 * time.Hour), now.Add(-24 * time.Hour), BucketPast},
		{"in progress counts as upcoming", now.Add(-time.Hour), now.Add(time.Hour), BucketUpcoming},
		{"ends right now is not past yet", now.Add(-time.Hour), now, BucketUpcoming},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := model.Event{Status: model.EventStatusActive, StartDate: tc.start, EndDate: tc.end}
			if got := Classify(&e, now); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseBucket(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"upcoming", "past", "draft", "cancelled"} {
		if _, ok := ParseBucket(s); !ok {
			t.Fatalf("%q should parse", s)
		}
	}
	for _, s := range []string{"", "all", "active", "UPCOMING"} {
		if _, ok := ParseBucket(s); ok {
			t.Fatalf("%q should not parse", s)
		}
	}
}

func TestCheckCancellable_RequiresReason(t *testing.T) {
	t.Parallel()

	now := time.Now()
	e := model.Event{Status: model.EventStatusActive, StartDate: now.Add(48 * time.Hour)}
	if err := CheckCancellable(&e, "", now); !errors.Is(err, ErrEmptyReason) {
		t.Fatalf("got %v, want ErrEmptyReason", err)
	}
}

func TestCheckCancellable_InsideNoticeWindow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	e := model.Event{Status: model.EventStatusActive, StartDate: now.Add(23 * time.Hour)}

	err := CheckCancellable(&e, "rain", now)
	var pv *PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("got %v, want PolicyViolationError", err)
	}
	if math.Abs(pv.HoursUntilStart-23) > 0.01 {
		t.Fatalf("hours until start = %.3f, want ~23", pv.HoursUntilStart)
	}
	if e.Status != model.EventStatusActive {
		t.Fatalf("failed check must not touch the event, status = %q", e.Status)
	}
}

func TestCheckCancellable_EnoughNotice(t *testing.T) {
	t.Parallel()

	now := time.Now()
	e := model.Event{Status: model.EventStatusActive, StartDate: now.Add(48 * time.Hour)}
	if err := CheckCancellable(&e, "rain", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCancellable_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	now := time.Now()
	e := model.Event{Status: model.EventStatusCancelled, StartDate: now.Add(72 * time.Hour)}
	if err := CheckCancellable(&e, "again", now); err == nil {
		t.Fatal("expected error for already cancelled event")
	}
}

func TestOfferStatus(t *testing.T) {
	t.Parallel()

	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name   string
		expiry *time.Time
		want   string
	}{
		{"nil expiry is active indefinitely", nil, model.OfferStatusActive},
		{"future expiry is active", &future, model.OfferStatusActive},
		{"past expiry is expired", &past, model.OfferStatusExpired},
		{"expiry exactly now is expired", &now, model.OfferStatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := model.Offer{ExpiryDate: tc.expiry}
			if got := OfferStatus(&o, now); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestOfferStatus_NeverPersisted(t *testing.T) {
	t.Parallel()

	// The same offer flips status when the clock moves past expiry,
	// without any write.
	expiry := time.Now().Add(time.Hour)
	o := model.Offer{ExpiryDate: &expiry}

	if got := OfferStatus(&o, expiry.Add(-time.Minute)); got != model.OfferStatusActive {
		t.Fatalf("before expiry: got %q", got)
	}
	if got := OfferStatus(&o, expiry.Add(time.Minute)); got != model.OfferStatusExpired {
		t.Fatalf("after expiry: got %q", got)
	}
}
