package model

import "time"

const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
)

const (
	OfferStatusActive  = "Active"
	OfferStatusExpired = "Expired"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type BusinessPartner struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	ContactMail string    `db:"contact_mail,omitempty" json:"contact_mail,omitempty"`
	Phone       string    `db:"phone,omitempty" json:"phone,omitempty"`
	City        string    `db:"city,omitempty" json:"city,omitempty"`
	About       string    `db:"about,omitempty" json:"about,omitempty"`
	Interests   string    `db:"interests,omitempty" json:"interests,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Event struct {
	ID                 int64      `db:"id" json:"id"`
	PartnerID          int64      `db:"partner_id" json:"partner_id"`
	Name               string     `db:"name" json:"name"`
	Description        string     `db:"description,omitempty" json:"description,omitempty"`
	BannerURL          string     `db:"banner_url,omitempty" json:"banner_url,omitempty"`
	StartDate          time.Time  `db:"start_date" json:"start_date"`
	EndDate            time.Time  `db:"end_date" json:"end_date"`
	Capacity           int        `db:"capacity" json:"capacity"`
	Price              float64    `db:"price" json:"price"`
	Currency           string     `db:"currency" json:"currency"`
	DraftMode          bool       `db:"draft_mode" json:"draft_mode"`
	Status             string     `db:"status" json:"status"`
	CancellationReason string     `db:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `db:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	OfferID            *int64     `db:"offer_id,omitempty" json:"offer_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

type Offer struct {
	ID         int64      `db:"id" json:"id"`
	PartnerID  int64      `db:"partner_id" json:"partner_id"`
	Percentage float64    `db:"percentage" json:"percentage"`
	Text       string     `db:"text,omitempty" json:"text,omitempty"`
	StartDate  time.Time  `db:"start_date" json:"start_date"`
	ExpiryDate *time.Time `db:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Registration links a partner to an event they attend. The number of
// registrations for an event is its current participant count.
type Registration struct {
	ID        int64     `db:"id" json:"id"`
	EventID   int64     `db:"event_id" json:"event_id"`
	PartnerID int64     `db:"partner_id" json:"partner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
