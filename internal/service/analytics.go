package service

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"partnerhub/internal/analytics"
	"partnerhub/internal/dto"
)

func (s *service) GetAnalytics(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	rctx := ctx.Request.Context()

	events, err := s.repo.GetEventsByPartner(rctx, partner.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load events for analytics")
		dto.InternalServerError(ctx)
		return
	}
	offers, err := s.repo.GetOffersByPartner(rctx, partner.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load offers for analytics")
		dto.InternalServerError(ctx)
		return
	}

	regCounts := make(map[int64]int, len(events))
	for i := range events {
		count, err := s.repo.CountRegistrations(rctx, events[i].ID)
		if err != nil {
			s.log.Error().Err(err).Int64("event_id", events[i].ID).Msg("failed to count registrations")
			continue
		}
		regCounts[events[i].ID] = count
	}

	now := time.Now()
	// Six calendar months covers both the series and the growth windows.
	regTimes, err := s.repo.GetRegistrationTimes(rctx, partner.ID, now.AddDate(0, -6, 0))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load registration times")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, analytics.BuildSummary(events, offers, regCounts, regTimes, now))
}

func (s *service) GetEventAnalytics(ctx *ginext.Context) {
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

	dto.SuccessResponse(ctx, analytics.BuildEventStats(event, count))
}
