package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/httpx"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/repository"
)

type RoleHandler struct {
	repo *repository.RoleRepository
}

func NewRoleHandler(repo *repository.RoleRepository) *RoleHandler {
	return &RoleHandler{repo: repo}
}

type roleReq struct {
	Name        string   `json:"name" validate:"required"`
	Slug        string   `json:"slug" validate:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	IsDefault   bool     `json:"isDefault"`
}

func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req roleReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	role := &models.Role{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Permissions: req.Permissions,
		IsDefault:   req.IsDefault,
	}
	if err := h.repo.Create(c.Context(), role); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "role created", role)
}

func (h *RoleHandler) List(c *fiber.Ctx) error {
	roles, err := h.repo.List(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", roles)
}

func (h *RoleHandler) Get(c *fiber.Ctx) error {
	role, err := h.repo.Get(c.Context(), c.Params("id"))
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", role)
}

type roleUpdateReq struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
	IsDefault   *bool     `json:"isDefault"`
}

func (h *RoleHandler) Update(c *fiber.Ctx) error {
	var req roleUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	updates := bson.M{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Permissions != nil {
		updates["permissions"] = *req.Permissions
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	role, err := h.repo.Update(c.Context(), c.Params("id"), updates)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "role updated", role)
}

func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.Context(), c.Params("id")); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "role deleted", nil)
}
