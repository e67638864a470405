package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wb-go/wbf/ginext"

	"partnerhub/internal/dto"
	"partnerhub/internal/lifecycle"
	"partnerhub/internal/model"
	"partnerhub/internal/repo"
	"partnerhub/pkg/validator"
)

// bindEventRequest shares the validation path of create and update,
// including the cross-field date check.
func (s *service) bindEventRequest(ctx *ginext.Context) (*dto.CreateEventRequest, bool) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return nil, false
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return nil, false
	}
	if req.EndDate.Before(req.StartDate) {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "end_date must not be before start_date")
		return nil, false
	}
	return &req, true
}

// checkOfferRef makes sure a referenced offer exists and belongs to the
// caller before it is attached to an event.
func (s *service) checkOfferRef(ctx *ginext.Context, partner *model.BusinessPartner, offerID *int64) bool {
	if offerID == nil {
		return true
	}
	offer, err := s.repo.GetOfferByID(ctx.Request.Context(), *offerID)
	if err != nil {
		dto.OfferNotFoundError(ctx)
		return false
	}
	if offer.PartnerID != partner.ID {
		dto.ForbiddenError(ctx)
		return false
	}
	return true
}

func (s *service) GetAllEvents(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}

	statusParam := ctx.Query("status")
	var filter lifecycle.Bucket
	filtered := false
	if statusParam != "" && statusParam != "all" {
		bucket, ok := lifecycle.ParseBucket(statusParam)
		if !ok {
			dto.BadResponseError(ctx, dto.FieldIncorrect, "Unknown status filter")
			return
		}
		filter = bucket
		filtered = true
	}

	events, err := s.repo.GetEventsByPartner(ctx.Request.Context(), partner.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalServerError(ctx)
		return
	}

	now := time.Now()
	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		e := &events[i]
		if filtered && lifecycle.Classify(e, now) != filter {
			continue
		}
		count, err := s.repo.CountRegistrations(ctx.Request.Context(), e.ID)
		if err != nil {
			s.log.Error().Err(err).Int64("event_id", e.ID).Msg("failed to count registrations")
			continue
		}
		resp = append(resp, eventResponse(e, count, now))
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	req, ok := s.bindEventRequest(ctx)
	if !ok {
		return
	}
	if !s.checkOfferRef(ctx, partner, req.OfferID) {
		return
	}

	event := &model.Event{
		PartnerID:   partner.ID,
		Name:        req.Name,
		Description: req.Description,
		BannerURL:   req.BannerURL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Capacity:    req.Capacity,
		Price:       req.Price,
		Currency:    req.Currency,
		DraftMode:   req.DraftMode,
		Status:      model.EventStatusActive,
		OfferID:     req.OfferID,
	}

	id, err := s.repo.CreateEvent(ctx.Request.Context(), event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		dto.InternalServerError(ctx)
		return
	}
	event.ID = id
	event.CreatedAt = time.Now()

	s.log.Info().Int64("event_id", id).Int64("partner_id", partner.ID).Msg("event created successfully")
	dto.SuccessCreatedResponse(ctx, eventResponse(event, 0, time.Now()))
}

func (s *service) GetEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, partner)
	if !ok {
		return
	}

	count, err := s.repo.CountRegistrations(ctx.Request.Context(), event.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, eventResponse(event, count, time.Now()))
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, partner)
	if !ok {
		return
	}
	if event.Status == model.EventStatusCancelled {
		dto.BadResponseError(ctx, dto.PolicyViolation, "Cancelled events cannot be edited")
		return
	}
	req, ok := s.bindEventRequest(ctx)
	if !ok {
		return
	}
	if !s.checkOfferRef(ctx, partner, req.OfferID) {
		return
	}

	event.Name = req.Name
	event.Description = req.Description
	event.BannerURL = req.BannerURL
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Capacity = req.Capacity
	event.Price = req.Price
	event.Currency = req.Currency
	event.DraftMode = req.DraftMode
	event.OfferID = req.OfferID

	if err := s.repo.UpdateEvent(ctx.Request.Context(), event); err != nil {
		s.log.Error().Err(err).Msg("failed to update event")
		dto.InternalServerError(ctx)
		return
	}

	count, _ := s.repo.CountRegistrations(ctx.Request.Context(), event.ID)
	dto.SuccessResponse(ctx, eventResponse(event, count, time.Now()))
}

func (s *service) DeleteEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, partner)
	if !ok {
		return
	}

	if err := s.repo.DeleteEvent(ctx.Request.Context(), event.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to delete event")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("event_id", event.ID).Msg("event deleted")
	dto.SuccessResponse(ctx, nil)
}

func (s *service) CancelEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, partner)
	if !ok {
		return
	}

	var req dto.CancelEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	now := time.Now()
	if err := lifecycle.CheckCancellable(event, req.Reason, now); err != nil {
		var pv *lifecycle.PolicyViolationError
		if errors.As(err, &pv) {
			dto.PolicyViolationError(ctx, pv.Error(), pv.HoursUntilStart)
			return
		}
		dto.BadResponseError(ctx, dto.PolicyViolation, err.Error())
		return
	}

	changed, err := s.repo.CancelEvent(ctx.Request.Context(), event.ID, req.Reason, now)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to cancel event")
		dto.InternalServerError(ctx)
		return
	}
	if !changed {
		// Lost the race against a concurrent cancellation.
		dto.BadResponseError(ctx, dto.PolicyViolation, "Event is already cancelled")
		return
	}

	event.Status = model.EventStatusCancelled
	event.CancellationReason = req.Reason
	event.CancelledAt = &now

	s.log.Info().Int64("event_id", event.ID).Str("reason", req.Reason).Msg("event cancelled")

	s.publishCancellation(event, req.Reason, now)

	count, _ := s.repo.CountRegistrations(ctx.Request.Context(), event.ID)
	dto.SuccessResponse(ctx, eventResponse(event, count, now))
}

// publishCancellation hands the cancellation to the notification fan-out.
// Best effort: a publish failure is logged, the cancellation itself stands.
func (s *service) publishCancellation(event *model.Event, reason string, now time.Time) {
	if s.pub == nil {
		return
	}
	msg := dto.EventCancelledMessage{
		EventID:     event.ID,
		EventName:   event.Name,
		Reason:      reason,
		CancelledAt: now,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal cancellation message")
		return
	}
	if err := s.pub.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish cancellation message")
	}
}

func (s *service) PublishEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, partner)
	if !ok {
		return
	}
	if event.Status == model.EventStatusCancelled {
		dto.BadResponseError(ctx, dto.PolicyViolation, "Cancelled events cannot be published")
		return
	}

	if err := s.repo.PublishEvent(ctx.Request.Context(), event.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to publish event")
		dto.InternalServerError(ctx)
		return
	}
	event.DraftMode = false

	count, _ := s.repo.CountRegistrations(ctx.Request.Context(), event.ID)
	dto.SuccessResponse(ctx, eventResponse(event, count, time.Now()))
}

func (s *service) RegisterForEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	event, err := s.repo.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return
	}
	// Drafts are invisible to other partners, so absent rather than forbidden.
	if event.DraftMode {
		dto.EventNotFoundError(ctx)
		return
	}
	if lifecycle.Classify(event, time.Now()) != lifecycle.BucketUpcoming {
		dto.BadResponseError(ctx, dto.PolicyViolation, "Registration is only open for upcoming events")
		return
	}

	regID, err := s.repo.CreateRegistration(ctx.Request.Context(), event.ID, partner.ID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEventNotFound):
			dto.EventNotFoundError(ctx)
		case errors.Is(err, repo.ErrEventFull):
			dto.BadResponseError(ctx, dto.EventFull, "Event is full")
		case errors.Is(err, repo.ErrDuplicateRegistration):
			dto.BadResponseError(ctx, dto.Duplicate, "You have already registered for this event")
		default:
			s.log.Error().Err(err).Msg("failed to create registration")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().Int64("registration_id", regID).Int64("event_id", event.ID).Msg("registration created")
	dto.SuccessCreatedResponse(ctx, model.Registration{
		ID:        regID,
		EventID:   event.ID,
		PartnerID: partner.ID,
		CreatedAt: time.Now(),
	})
}

func (s *service) InviteToEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, partner)
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	report := dto.MailReport{}
	for _, recipient := range req.Recipients {
		if err := s.mail.SendInvite(recipient, partner.Name, event.Name, event.StartDate, req.Message); err != nil {
			s.log.Warn().Err(err).Str("recipient", recipient).Msg("invite email failed")
			report.Failed = append(report.Failed, recipient)
			continue
		}
		report.Sent = append(report.Sent, recipient)
	}

	// Mail failures are reported, not fatal.
	dto.SuccessResponse(ctx, report)
}

func (s *service) ShareEvent(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, partner)
	if !ok {
		return
	}

	var req dto.ShareRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	report := dto.MailReport{}
	if err := s.mail.SendShare(req.Email, partner.Name, event.Name, event.StartDate, req.Message); err != nil {
		s.log.Warn().Err(err).Str("recipient", req.Email).Msg("share email failed")
		report.Failed = append(report.Failed, req.Email)
	} else {
		report.Sent = append(report.Sent, req.Email)
	}

	dto.SuccessResponse(ctx, report)
}
