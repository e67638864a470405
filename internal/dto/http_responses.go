package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	Unauthorized    = "UNAUTHORIZED"
	Forbidden       = "FORBIDDEN"
	PolicyViolation = "POLICY_VIOLATION"
	Duplicate       = "DUPLICATE"

	EventNotFound   = "EVENT_NOT_FOUND"
	OfferNotFound   = "OFFER_NOT_FOUND"
	PartnerNotFound = "PARTNER_NOT_FOUND"
	EventFull       = "EVENT_FULL"
)

// UserIDKey is the gin context key under which the session middleware stores
// the authenticated user ID.
const UserIDKey = "userID"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type PartnerRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	ContactMail string `json:"contact_mail" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	About       string `json:"about"`
	Interests   string `json:"interests"`
}

type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required,min=2,max=255"`
	Description string    `json:"description"`
	BannerURL   string    `json:"banner_url" validate:"omitempty,url"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Capacity    int       `json:"capacity" validate:"gt=0"`
	Price       float64   `json:"price" validate:"gte=0"`
	Currency    string    `json:"currency" validate:"required,currency"`
	DraftMode   bool      `json:"draft_mode"`
	OfferID     *int64    `json:"offer_id"`
}

type CancelEventRequest struct {
	Reason string `json:"reason" validate:"required,min=2,max=500"`
}

type CreateOfferRequest struct {
	Percentage float64    `json:"percentage" validate:"required,gt=0,lte=100"`
	Text       string     `json:"text" validate:"max=500"`
	StartDate  time.Time  `json:"start_date" validate:"required"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

type LinkOfferRequest struct {
	EventID   *int64 `json:"event_id"`
	AllEvents bool   `json:"all_events"`
}

type InviteRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,max=50,dive,email"`
	Message    string   `json:"message" validate:"max=1000"`
}

type ShareRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"max=1000"`
}

type EventResponse struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Description         string     `json:"description,omitempty"`
	BannerURL           string     `json:"banner_url,omitempty"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             time.Time  `json:"end_date"`
	Capacity            int        `json:"capacity"`
	Price               float64    `json:"price"`
	Currency            string     `json:"currency"`
	DraftMode           bool       `json:"draft_mode"`
	Status              string     `json:"status"`
	Bucket              string     `json:"bucket"`
	CancellationReason  string     `json:"cancellation_reason,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	OfferID             *int64     `json:"offer_id,omitempty"`
	CurrentParticipants int        `json:"current_participants"`
	CreatedAt           time.Time  `json:"created_at"`
}

type OfferResponse struct {
	ID         int64      `json:"id"`
	Percentage float64    `json:"percentage"`
	Text       string     `json:"text,omitempty"`
	StartDate  time.Time  `json:"start_date"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

type MailReport struct {
	Sent   []string `json:"sent,omitempty"`
	Failed []string `json:"failed,omitempty"`
}

type EventCancelledMessage struct {
	EventID     int64     `json:"event_id"`
	EventName   string    `json:"event_name"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code            string   `json:"code"`
	Desc            string   `json:"desc"`
	HoursUntilStart *float64 `json:"hours_until_start,omitempty"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func PolicyViolationError(c *ginext.Context, desc string, hoursUntilStart float64) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code:            PolicyViolation,
			Desc:            desc,
			HoursUntilStart: &hoursUntilStart,
		},
	})
}

func UnauthorizedError(c *ginext.Context) {
	c.JSON(401, Response{
		Status: "error",
		Error: &Error{
			Code: Unauthorized,
			Desc: "Authentication required",
		},
	})
}

func ForbiddenError(c *ginext.Context) {
	c.JSON(403, Response{
		Status: "error",
		Error: &Error{
			Code: Forbidden,
			Desc: "You do not own this resource",
		},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func EventNotFoundError(c *ginext.Context) {
	NotFoundError(c, EventNotFound, "Event not found")
}

func OfferNotFoundError(c *ginext.Context) {
	NotFoundError(c, OfferNotFound, "Offer not found")
}

func PartnerNotFoundError(c *ginext.Context) {
	NotFoundError(c, PartnerNotFound, "Business partner profile not found")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
