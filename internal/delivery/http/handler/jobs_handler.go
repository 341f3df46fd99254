package handler

import (
	"errors"
	"strconv"
	"time"

	"kazi-hub/internal/delivery/http/dto"
	"kazi-hub/internal/delivery/http/middleware"
	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/pkg/response"
	"kazi-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc usecase.JobsQueryUsecase
}

func NewJobsHandler(uc usecase.JobsQueryUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs", h.HandleListJobs)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Query(c.Context(), usecase.JobsQueryParams{
		County: c.Query("county"),
		Sector: c.Query("sector"),
		Type:   c.Query("type"),
		Q:      c.Query("q"),
		Limit:  limit,
	})
	if err != nil {
		return mapJobsQueryError(err)
	}

	data := dto.JobsListResponseData{
		Total:    res.Total,
		Returned: res.Returned,
		Jobs:     make([]dto.JobResponse, 0, len(res.Jobs)),
		Message:  res.Message,
	}
	if !res.GeneratedAt.IsZero() {
		data.ScrapedAt = res.GeneratedAt.UTC().Format(time.RFC3339)
	}
	for _, p := range res.Jobs {
		data.Jobs = append(data.Jobs, jobToResponse(p))
	}

	return response.Success(c, fiber.StatusOK, "success", data)
}

func jobToResponse(p job.Posting) dto.JobResponse {
	scraped := ""
	if !p.ScrapedAt.IsZero() {
		scraped = p.ScrapedAt.UTC().Format(time.RFC3339)
	}
	return dto.JobResponse{
		ID:          p.ID,
		Title:       p.Title,
		Company:     p.Company,
		Location:    p.Location,
		County:      p.County,
		Type:        p.Type,
		Sector:      p.Sector,
		Salary:      p.Salary,
		Deadline:    p.Deadline,
		Link:        p.Link,
		ApplyEmail:  p.ApplyEmail,
		Description: p.Description,
		Source:      p.Source,
		ScrapedAt:   scraped,
	}
}

func mapJobsQueryError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
