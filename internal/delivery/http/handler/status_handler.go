package handler

import (
	"time"

	"kazi-hub/internal/delivery/http/dto"
	"kazi-hub/internal/pkg/response"
	"kazi-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type StatusHandler struct {
	uc usecase.StatusUsecase
}

func NewStatusHandler(uc usecase.StatusUsecase) *StatusHandler {
	return &StatusHandler{uc: uc}
}

func (h *StatusHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/status", h.HandleStatus)
}

func (h *StatusHandler) HandleStatus(c fiber.Ctx) error {
	rep, err := h.uc.Status(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "failed to read scraper status", nil)
	}

	data := dto.StatusResponseData{
		Status:    rep.Status,
		TotalJobs: rep.TotalJobs,
		Stale:     rep.Stale,
		Scheduler: rep.SchedulerState,
		Message:   rep.Message,
	}
	if !rep.LastRun.IsZero() {
		data.LastRun = rep.LastRun.UTC().Format(time.RFC3339)
	}
	if rep.Interval > 0 {
		data.Interval = rep.Interval.String()
	}
	for _, src := range rep.Sources {
		data.Sources = append(data.Sources, dto.SourceStatusResponse{
			Source: src.Source,
			Count:  src.Count,
			Error:  src.Err,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
