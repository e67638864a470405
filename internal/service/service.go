package service

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"partnerhub/internal/dto"
	"partnerhub/internal/lifecycle"
	"partnerhub/internal/model"
	"partnerhub/internal/repo"
)

type Service interface {
	Register(ctx *ginext.Context)
	Login(ctx *ginext.Context)
	CreatePartner(ctx *ginext.Context)
	GetPartner(ctx *ginext.Context)
	UpdatePartner(ctx *ginext.Context)

	GetAllEvents(ctx *ginext.Context)
	CreateEvent(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)
	CancelEvent(ctx *ginext.Context)
	PublishEvent(ctx *ginext.Context)
	RegisterForEvent(ctx *ginext.Context)
	InviteToEvent(ctx *ginext.Context)
	ShareEvent(ctx *ginext.Context)
	GetEventAnalytics(ctx *ginext.Context)

	GetAllOffers(ctx *ginext.Context)
	CreateOffer(ctx *ginext.Context)
	GetOffer(ctx *ginext.Context)
	UpdateOffer(ctx *ginext.Context)
	DeleteOffer(ctx *ginext.Context)
	LinkOffer(ctx *ginext.Context)
	GetOfferEvents(ctx *ginext.Context)

	GetAnalytics(ctx *ginext.Context)
}

// MailSender is the outbound mail collaborator. Sends are best effort:
// failures come back to the handler and are reported, never retried.
type MailSender interface {
	SendInvite(to, partnerName, eventName string, start time.Time, message string) error
	SendShare(to, partnerName, eventName string, start time.Time, message string) error
}

// Publisher hands cancellation messages to the notification fan-out.
type Publisher interface {
	Publish(message []byte) error
}

type service struct {
	repo     repo.Repository
	log      *zerolog.Logger
	mail     MailSender
	pub      Publisher
	secret   []byte
	tokenTTL time.Duration
}

func NewService(repo repo.Repository, logger *zerolog.Logger, mail MailSender, pub Publisher, secret []byte, tokenTTL time.Duration) Service {
	return &service{
		repo:     repo,
		log:      logger,
		mail:     mail,
		pub:      pub,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func pathID(ctx *ginext.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid ID")
		return 0, false
	}
	return id, true
}

// currentPartner resolves the calling partner from the session user set by
// the middleware. Writes the error response itself on failure.
func (s *service) currentPartner(ctx *ginext.Context) (*model.BusinessPartner, bool) {
	userID := ctx.GetInt64(dto.UserIDKey)
	if userID == 0 {
		dto.UnauthorizedError(ctx)
		return nil, false
	}
	partner, err := s.repo.GetPartnerByUserID(ctx.Request.Context(), userID)
	if err != nil {
		dto.PartnerNotFoundError(ctx)
		return nil, false
	}
	return partner, true
}

// ownedEvent loads an event and enforces ownership: 404 when absent, 403 when
// it belongs to another partner. Checks run before any mutation.
func (s *service) ownedEvent(ctx *ginext.Context, partner *model.BusinessPartner) (*model.Event, bool) {
	id, ok := pathID(ctx)
	if !ok {
		return nil, false
	}
	event, err := s.repo.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return nil, false
	}
	if event.PartnerID != partner.ID {
		dto.ForbiddenError(ctx)
		return nil, false
	}
	return event, true
}

func (s *service) ownedOffer(ctx *ginext.Context, partner *model.BusinessPartner) (*model.Offer, bool) {
	id, ok := pathID(ctx)
	if !ok {
		return nil, false
	}
	offer, err := s.repo.GetOfferByID(ctx.Request.Context(), id)
	if err != nil {
		dto.OfferNotFoundError(ctx)
		return nil, false
	}
	if offer.PartnerID != partner.ID {
		dto.ForbiddenError(ctx)
		return nil, false
	}
	return offer, true
}

func eventResponse(e *model.Event, participants int, now time.Time) dto.EventResponse {
	return dto.EventResponse{
		ID:                  e.ID,
		Name:                e.Name,
		Description:         e.Description,
		BannerURL:           e.BannerURL,
		StartDate:           e.StartDate,
		EndDate:             e.EndDate,
		Capacity:            e.Capacity,
		Price:               e.Price,
		Currency:            e.Currency,
		DraftMode:           e.DraftMode,
		Status:              e.Status,
		Bucket:              string(lifecycle.Classify(e, now)),
		CancellationReason:  e.CancellationReason,
		CancelledAt:         e.CancelledAt,
		OfferID:             e.OfferID,
		CurrentParticipants: participants,
		CreatedAt:           e.CreatedAt,
	}
}

func offerResponse(o *model.Offer, now time.Time) dto.OfferResponse {
	return dto.OfferResponse{
		ID:         o.ID,
		Percentage: o.Percentage,
		Text:       o.Text,
		StartDate:  o.StartDate,
		ExpiryDate: o.ExpiryDate,
		Status:     lifecycle.OfferStatus(o, now),
		CreatedAt:  o.CreatedAt,
	}
}
