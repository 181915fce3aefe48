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

type CalendarHandler struct {
	repo *repository.CalendarRepository
}

func NewCalendarHandler(repo *repository.CalendarRepository) *CalendarHandler {
	return &CalendarHandler{repo: repo}
}

type calendarEventReq struct {
	Title       string    `json:"title" validate:"required"`
	Category    string    `json:"category"`
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	Description string    `json:"description"`
}

func (h *CalendarHandler) Create(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req calendarEventReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	if !req.End.IsZero() && req.End.Before(req.Start) {
		return httpx.FromErr(c, apperr.ErrValidation)
	}
	e := &models.CalendarEvent{
		Title:       req.Title,
		Category:    req.Category,
		Start:       req.Start,
		End:         req.End,
		AllDay:      req.AllDay,
		Description: req.Description,
		CreatedBy:   who,
	}
	if err := h.repo.Create(c.Context(), e); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "event created", e)
}

func (h *CalendarHandler) List(c *fiber.Ctx) error {
	events, err := h.repo.List(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", events)
}

type calendarUpdateReq struct {
	Title       *string    `json:"title"`
	Category    *string    `json:"category"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	AllDay      *bool      `json:"allDay"`
	Description *string    `json:"description"`
}

func (h *CalendarHandler) Update(c *fiber.Ctx) error {
	var req calendarUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	updates := bson.M{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Start != nil {
		updates["start"] = *req.Start
	}
	if req.End != nil {
		updates["end"] = *req.End
	}
	if req.AllDay != nil {
		updates["all_day"] = *req.AllDay
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	e, err := h.repo.Update(c.Context(), c.Params("id"), updates)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "event updated", e)
}

func (h *CalendarHandler) Delete(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.Context(), c.Params("id")); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "event deleted", nil)
}
