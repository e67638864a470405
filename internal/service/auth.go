package service

import (
	"errors"
	"fmt"

	"github.com/wb-go/wbf/ginext"

	"partnerhub/internal/auth"
	"partnerhub/internal/dto"
	"partnerhub/internal/model"
	"partnerhub/internal/repo"
	"partnerhub/pkg/validator"
)

func (s *service) Register(ctx *ginext.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		dto.InternalServerError(ctx)
		return
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	id, err := s.repo.CreateUser(ctx.Request.Context(), user)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			dto.BadResponseError(ctx, dto.Duplicate, "Email is already registered")
			return
		}
		s.log.Error().Err(err).Msg("failed to create user")
		dto.InternalServerError(ctx)
		return
	}

	token, err := auth.GenerateToken(id, s.secret, s.tokenTTL)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue token")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("user_id", id).Msg("user registered")
	s.setSessionCookie(ctx, token)
	dto.SuccessCreatedResponse(ctx, dto.AuthResponse{Token: token, UserID: id, Username: req.Username})
}

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	user, err := s.repo.GetUserByEmail(ctx.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// One message for both cases, no hint which part was wrong.
		dto.UnauthorizedError(ctx)
		return
	}

	token, err := auth.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue token")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	s.setSessionCookie(ctx, token)
	dto.SuccessResponse(ctx, dto.AuthResponse{Token: token, UserID: user.ID, Username: user.Username})
}

func (s *service) setSessionCookie(ctx *ginext.Context, token string) {
	ctx.SetCookie("session", token, int(s.tokenTTL.Seconds()), "/", "", false, true)
}

func (s *service) CreatePartner(ctx *ginext.Context) {
	userID := ctx.GetInt64(dto.UserIDKey)
	if userID == 0 {
		dto.UnauthorizedError(ctx)
		return
	}

	if _, err := s.repo.GetPartnerByUserID(ctx.Request.Context(), userID); err == nil {
		dto.BadResponseError(ctx, dto.Duplicate, "Partner profile already exists")
		return
	}

	var req dto.PartnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	partner := &model.BusinessPartner{
		UserID:      userID,
		Name:        req.Name,
		ContactMail: req.ContactMail,
		Phone:       req.Phone,
		City:        req.City,
		About:       req.About,
		Interests:   req.Interests,
	}
	id, err := s.repo.CreatePartner(ctx.Request.Context(), partner)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create partner")
		dto.InternalServerError(ctx)
		return
	}
	partner.ID = id

	s.log.Info().Int64("partner_id", id).Int64("user_id", userID).Msg("partner profile created")
	dto.SuccessCreatedResponse(ctx, partner)
}

func (s *service) GetPartner(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}
	dto.SuccessResponse(ctx, partner)
}

func (s *service) UpdatePartner(ctx *ginext.Context) {
	partner, ok := s.currentPartner(ctx)
	if !ok {
		return
	}

	var req dto.PartnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	partner.Name = req.Name
	partner.ContactMail = req.ContactMail
	partner.Phone = req.Phone
	partner.City = req.City
	partner.About = req.About
	partner.Interests = req.Interests

	if err := s.repo.UpdatePartner(ctx.Request.Context(), partner); err != nil {
		s.log.Error().Err(err).Msg("failed to update partner")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, partner)
}
