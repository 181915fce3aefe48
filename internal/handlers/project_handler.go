package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/httpx"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/middleware"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/repository"
)

type ProjectHandler struct {
	repo *repository.ProjectRepository
}

func NewProjectHandler(repo *repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{repo: repo}
}

type projectReq struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	Status      string        `json:"status" validate:"omitempty,oneof=Pending Inprogress Completed Delay"`
	Visibility  string        `json:"visibility" validate:"omitempty,oneof=Private Public"`
	StartDate   *time.Time    `json:"startDate"`
	DueDate     *time.Time    `json:"dueDate"`
	Members     []string      `json:"members"`
	Files       []models.File `json:"files"`
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req projectReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	p := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Status:      models.ProjectStatus(req.Status),
		Visibility:  req.Visibility,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Members:     req.Members,
		CreatedBy:   who.ID,
		Files:       req.Files,
	}
	if err := h.repo.Create(c.Context(), p); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "project created", p)
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	projects, total, err := h.repo.List(c.Context(), c.Query("search"), c.Query("status"), page, limit)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", fiber.Map{
		"projects": projects,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	p, err := h.repo.Get(c.Context(), c.Params("id"))
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", p)
}

// Stats powers the dashboard cards: totals and a per-status breakdown.
func (h *ProjectHandler) Stats(c *fiber.Ctx) error {
	total, err := h.repo.Count(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	byStatus, err := h.repo.CountByStatus(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", fiber.Map{
		"total":    total,
		"byStatus": byStatus,
	})
}

type projectUpdateReq struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Image       *string        `json:"image"`
	Status      *string        `json:"status" validate:"omitempty,oneof=Pending Inprogress Completed Delay"`
	Visibility  *string        `json:"visibility" validate:"omitempty,oneof=Private Public"`
	StartDate   *time.Time     `json:"startDate"`
	DueDate     *time.Time     `json:"dueDate"`
	Members     *[]string      `json:"members"`
	Files       *[]models.File `json:"files"`
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var req projectUpdateReq
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
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Visibility != nil {
		updates["visibility"] = *req.Visibility
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Members != nil {
		updates["members"] = *req.Members
	}
	if req.Files != nil {
		updates["files"] = *req.Files
	}
	p, err := h.repo.Update(c.Context(), c.Params("id"), updates)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "project updated", p)
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.Context(), c.Params("id")); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "project deleted", nil)
}
