package handler

import (
	"errors"
	"time"

	"kazi-hub/internal/delivery/http/dto"
	"kazi-hub/internal/delivery/http/middleware"
	"kazi-hub/internal/pkg/response"
	"kazi-hub/internal/scheduler"
	"kazi-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AdminHandler struct {
	auth    usecase.AdminAuthUsecase
	refresh usecase.RefreshUsecase
}

type tokenRequest struct {
	Secret string `json:"secret"`
}

func NewAdminHandler(auth usecase.AdminAuthUsecase, refresh usecase.RefreshUsecase) *AdminHandler {
	return &AdminHandler{auth: auth, refresh: refresh}
}

// RegisterRoutes mounts the token exchange openly and the trigger behind
// the admin middleware.
func (h *AdminHandler) RegisterRoutes(r fiber.Router, adminMW fiber.Handler) {
	if r == nil {
		return
	}
	r.Post("/token", h.HandleIssueToken)

	protected := r.Group("", adminMW)
	protected.Post("/scrape", h.HandleTriggerScrape)
}

func (h *AdminHandler) HandleIssueToken(c fiber.Ctx) error {
	var req tokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	token, exp, err := h.auth.IssueToken(c.Context(), req.Secret)
	if err != nil {
		return mapAdminUsecaseError(err)
	}

	data := dto.TokenResponseData{
		Token:     token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

// HandleTriggerScrape answers 202 and lets the run proceed in the
// background; a run already in flight answers 409.
func (h *AdminHandler) HandleTriggerScrape(c fiber.Ctx) error {
	if err := h.refresh.Trigger(c.Context()); err != nil {
		if errors.Is(err, scheduler.ErrAlreadyRunning) {
			return middleware.NewAppError(fiber.StatusConflict, "Scrape already running",
				dto.RefreshResponseData{State: scheduler.StateRunning}, err)
		}
		return mapAdminUsecaseError(err)
	}

	return response.Success(c, fiber.StatusAccepted, "Scrape started in background",
		dto.RefreshResponseData{State: scheduler.StateRunning})
}

func mapAdminUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized: send the admin secret", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}
