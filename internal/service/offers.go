package service

import (
	"fmt"
	"time"

	"github.com/wb-go/wbf/ginext"

	"partnerhub/internal/dto"
	"partnerhub/internal/model"
	"partnerhub/pkg/validator"
)

func (s *service) bindOfferRequest(ctx *ginext.Context) (*dto.CreateOfferRequest, bool) {
	var req dto.CreateOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return nil, false
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return nil, false
	}
	if req.ExpiryDate != nil && req.ExpiryDate.Before(req.StartDate) {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "expiry_date must not be before start_date")
		return nil, false
	}
	return &req, true
}

func (s *service) GetAllOffers(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}

	offers, err := s.repo.GetOffersByPartner(ctx.Request.Context(), partner.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list offers")
		dto.InternalServerError(ctx)
		return
	}

	now := time.Now()
	resp := make([]dto.OfferResponse, 0, len(offers))
	for i := range offers {
		resp = append(resp, offerResponse(&offers[i], now))
	}
	dto.SuccessResponse(ctx, resp)
}

func (s *service) CreateOffer(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	req, ok := s.bindOfferRequest(ctx)
	if !ok {
		return
	}

	offer := &model.Offer{
		PartnerID:  partner.ID,
		Percentage: req.Percentage,
		Text:       req.Text,
		StartDate:  req.StartDate,
		ExpiryDate: req.ExpiryDate,
	}
	id, err := s.repo.CreateOffer(ctx.Request.Context(), offer)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create offer")
		dto.InternalServerError(ctx)
		return
	}
	offer.ID = id
	offer.CreatedAt = time.Now()

	s.log.Info().Int64("offer_id", id).Int64("partner_id", partner.ID).Msg("offer created")
	dto.SuccessCreatedResponse(ctx, offerResponse(offer, time.Now()))
}

func (s *service) GetOffer(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	offer, ok := s.ownedOffer(ctx, partner)
	if !ok {
		return
	}
	dto.SuccessResponse(ctx, offerResponse(offer, time.Now()))
}

func (s *service) UpdateOffer(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	offer, ok := s.ownedOffer(ctx, partner)
	if !ok {
		return
	}
	req, ok := s.bindOfferRequest(ctx)
	if !ok {
		return
	}

	offer.Percentage = req.Percentage
	offer.Text = req.Text
	offer.StartDate = req.StartDate
	offer.ExpiryDate = req.ExpiryDate

	if err := s.repo.UpdateOffer(ctx.Request.Context(), offer); err != nil {
		s.log.Error().Err(err).Msg("failed to update offer")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, offerResponse(offer, time.Now()))
}

func (s *service) DeleteOffer(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	offer, ok := s.ownedOffer(ctx, partner)
	if !ok {
		return
	}

	if err := s.repo.DeleteOffer(ctx.Request.Context(), offer.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to delete offer")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("offer_id", offer.ID).Msg("offer deleted, event references cleared")
	dto.SuccessResponse(ctx, nil)
}

func (s *service) LinkOffer(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	offer, ok := s.ownedOffer(ctx, partner)
	if !ok {
		return
	}

	var req dto.LinkOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if req.AllEvents == (req.EventID != nil) {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Provide either event_id or all_events")
		return
	}

	if req.AllEvents {
		if err := s.repo.LinkOfferToPartnerEvents(ctx.Request.Context(), offer.ID, partner.ID); err != nil {
			s.log.Error().Err(err).Msg("failed to link offer to all events")
			dto.InternalServerError(ctx)
			return
		}
	} else {
		event, err := s.repo.GetEventByID(ctx.Request.Context(), *req.EventID)
		if err != nil {
			dto.EventNotFoundError(ctx)
			return
		}
		if event.PartnerID != partner.ID {
			dto.ForbiddenError(ctx)
			return
		}
		if err := s.repo.SetEventOffer(ctx.Request.Context(), event.ID, &offer.ID); err != nil {
			s.log.Error().Err(err).Msg("failed to link offer to event")
			dto.InternalServerError(ctx)
			return
		}
	}

	events, err := s.repo.GetEventsByOffer(ctx.Request.Context(), offer.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list linked events")
		dto.InternalServerError(ctx)
		return
	}

	now := time.Now()
	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		count, _ := s.repo.CountRegistrations(ctx.Request.Context(), events[i].ID)
		resp = append(resp, eventResponse(&events[i], count, now))
	}
	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetOfferEvents(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	offer, ok := s.ownedOffer(ctx, partner)
	if !ok {
		return
	}

	events, err := s.repo.GetEventsByOffer(ctx.Request.Context(), offer.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events for offer")
		dto.InternalServerError(ctx)
		return
	}

	now := time.Now()
	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		count, _ := s.repo.CountRegistrations(ctx.Request.Context(), events[i].ID)
		resp = append(resp, eventResponse(&events[i], count, now))
	}
	dto.SuccessResponse(ctx, resp)
}
