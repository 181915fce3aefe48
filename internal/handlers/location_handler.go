package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/httpx"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/service"
)

type LocationHandler struct {
	svc *service.LocationService
}

func NewLocationHandler(svc *service.LocationService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// Sync refreshes the division reference data from the upstream API.
func (h *LocationHandler) Sync(c *fiber.Ctx) error {
	if err := h.svc.Sync(c.Context()); err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "locations synced", nil)
}

func (h *LocationHandler) Provinces(c *fiber.Ctx) error {
	provinces, err := h.svc.Provinces(c.Context())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", provinces)
}

func (h *LocationHandler) Districts(c *fiber.Ctx) error {
	code, err := c.ParamsInt("provinceCode")
	if err != nil || code <= 0 {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	districts, err := h.svc.Districts(c.Context(), code)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", districts)
}

func (h *LocationHandler) Wards(c *fiber.Ctx) error {
	code, err := c.ParamsInt("districtCode")
	if err != nil || code <= 0 {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	wards, err := h.svc.Wards(c.Context(), code)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", wards)
}

func (h *LocationHandler) Holidays(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())
	country := c.Query("countryCode", "VN")
	holidays, err := h.svc.Holidays(c.Context(), year, country)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", holidays)
}
