package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/httpx"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/middleware"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/repository"
)

type TaskHandler struct {
	repo *repository.TaskRepository
}

func NewTaskHandler(repo *repository.TaskRepository) *TaskHandler {
	return &TaskHandler{repo: repo}
}

// slugify turns a task name into a url-safe slug, suffixed for uniqueness.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "task"
	}
	return slug + "-" + uuid.NewString()[:8]
}

type taskReq struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Budget      float64       `json:"budget"`
	StartDate   *time.Time    `json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	Status      string        `json:"status" validate:"omitempty,oneof=Waiting Pending Approved Complete"`
	Members     []string      `json:"members"`
	Files       []models.File `json:"files"`
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req taskReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	t := &models.Task{
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.TaskStatus(req.Status),
		Members:     req.Members,
		CreatedBy:   who.ID,
		Files:       req.Files,
	}
	if err := h.repo.Create(c.Context(), t); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "task created", t)
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	tasks, total, err := h.repo.List(c.Context(), c.Query("search"), page, limit)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", fiber.Map{
		"tasks": tasks,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Kanban returns the board columns.
func (h *TaskHandler) Kanban(c *fiber.Ctx) error {
	upcoming, inProgress, completed, err := h.repo.Kanban(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", fiber.Map{
		"upcoming":   upcoming,
		"inProgress": inProgress,
		"completed":  completed,
	})
}

// Stats returns dashboard numbers: totals plus two 12-month series.
func (h *TaskHandler) Stats(c *fiber.Ctx) error {
	total, err := h.repo.Count(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	completed, err := h.repo.CountByStatus(c.Context(), models.TaskComplete)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	completeByMonth, allByMonth, err := h.repo.MonthlyStats(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", fiber.Map{
		"total":           total,
		"completed":       completed,
		"completeByMonth": completeByMonth,
		"allByMonth":      allByMonth,
	})
}

func (h *TaskHandler) Recent(c *fiber.Ctx) error {
	limit := int64(c.QueryInt("limit", 5))
	if limit < 1 || limit > 50 {
		limit = 5
	}
	tasks, err := h.repo.Recent(c.Context(), limit)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", tasks)
}

type taskUpdateReq struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Budget      *float64       `json:"budget"`
	StartDate   *time.Time     `json:"startDate"`
	EndDate     *time.Time     `json:"endDate"`
	Status      *string        `json:"status" validate:"omitempty,oneof=Waiting Pending Approved Complete"`
	Members     *[]string      `json:"members"`
	Files       *[]models.File `json:"files"`
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var req taskUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	updates := bson.M{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Members != nil {
		updates["members"] = *req.Members
	}
	if req.Files != nil {
		updates["files"] = *req.Files
	}
	t, err := h.repo.Update(c.Context(), c.Params("id"), updates)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "task updated", t)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.Context(), c.Params("id")); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "task deleted", nil)
}
