package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"partnerhub/internal/model"
)

type Bucket string

const (
	BucketUpcoming  Bucket = "upcoming"
	BucketPast      Bucket = "past"
	BucketDraft     Bucket = "draft"
	BucketCancelled Bucket = "cancelled"
)

// CancellationNotice is the minimum lead time an event needs before its
// start to still be cancellable.
const CancellationNotice = 24 * time.Hour

var ErrEmptyReason = errors.New("cancellation reason is required")

// PolicyViolationError is returned when an event starts too soon to be
// cancelled. HoursUntilStart is carried for user display.
type PolicyViolationError struct {
	HoursUntilStart float64
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("event starts in %.1f hours, cancellation requires %d hours notice",
		e.HoursUntilStart, int(CancellationNotice.Hours()))
}

// Classify puts an event into exactly one bucket. Cancelled wins over
// everything, then draft, then the dates. An event that has started but not
// yet ended counts as upcoming until its end date passes.
func Classify(e *model.Event, now time.Time) Bucket {
	switch {
	case e.Status == model.EventStatusCancelled:
		return BucketCancelled
	case e.DraftMode:
		return BucketDraft
	case e.EndDate.Before(now):
		return BucketPast
	default:
		return BucketUpcoming
	}
}

// ParseBucket validates a status query value. "all" and "" mean no filter.
func ParseBucket(s string) (Bucket, bool) {
	switch Bucket(s) {
	case BucketUpcoming, BucketPast, BucketDraft, BucketCancelled:
		return Bucket(s), true
	}
	return "", false
}

// CheckCancellable gates the cancel transition: a non-empty reason, a not yet
// cancelled event, and at least CancellationNotice until start. Cancellation
// is terminal, an already cancelled event fails the check.
func CheckCancellable(e *model.Event, reason string, now time.Time) error {
	if reason == "" {
		return ErrEmptyReason
	}
	if e.Status == model.EventStatusCancelled {
		return errors.New("event is already cancelled")
	}
	until := e.StartDate.Sub(now)
	if until < CancellationNotice {
		return &PolicyViolationError{HoursUntilStart: until.Hours()}
	}
	return nil
}

// OfferStatus derives Active/Expired from the expiry timestamp. Never
// persisted: a nil expiry is active forever, otherwise the offer is active
// strictly until the expiry moment.
func OfferStatus(o *model.Offer, now time.Time) string {
	if o.ExpiryDate == nil || o.ExpiryDate.After(now) {
		return model.OfferStatusActive
	}
	return model.OfferStatusExpired
}
