package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/httpx"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/middleware"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/service"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	svc       *service.AuthService
	clientURL string
	secure    bool
}

func NewAuthHandler(svc *service.AuthService, clientURL string, secure bool) *AuthHandler {
	return &AuthHandler{svc: svc, clientURL: clientURL, secure: secure}
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/api/v1/auth",
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
}

type registerAdminReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req registerAdminReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	a, err := h.svc.RegisterAdmin(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "admin registered", a)
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	a, pair, err := h.svc.LoginAdmin(c.Context(), req.Email, req.Password)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return httpx.Success(c, fiber.StatusOK, "login successful", fiber.Map{
		"user":        a,
		"accessToken": pair.AccessToken,
	})
}

type registerEmployeeReq struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department"`
	JobTitle   string `json:"jobTitle"`
}

func (h *AuthHandler) RegisterEmployee(c *fiber.Ctx) error {
	var req registerEmployeeReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	e := &models.Employee{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		JobTitle:   req.JobTitle,
	}
	e, err := h.svc.RegisterEmployee(c.Context(), e, req.Password)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "employee registered", e)
}

func (h *AuthHandler) LoginEmployee(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	e, pair, err := h.svc.LoginEmployee(c.Context(), req.Email, req.Password)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return httpx.Success(c, fiber.StatusOK, "login successful", fiber.Map{
		"user":        e,
		"accessToken": pair.AccessToken,
	})
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh accepts the refresh token from the cookie or, for non-browser
// clients, the request body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		var req refreshReq
		if err := c.BodyParser(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	pair, err := h.svc.Refresh(c.Context(), token)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return httpx.Success(c, fiber.StatusOK, "token refreshed", fiber.Map{
		"accessToken": pair.AccessToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/api/v1/auth",
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
	return httpx.Success(c, fiber.StatusOK, "logged out", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	contact, err := h.svc.Me(c.Context(), who)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", contact)
}

func (h *AuthHandler) GoogleURL(c *fiber.Ctx) error {
	url, err := h.svc.GoogleAuthURL()
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", fiber.Map{"url": url})
}

// GoogleCallback lands the browser redirect from Google and bounces back to
// the SPA with a one-time exchange code in the query string.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	exchange, err := h.svc.GoogleCallback(c.Context(), code)
	if err != nil {
		return c.Redirect(h.clientURL + "/login?error=google", fiber.StatusTemporaryRedirect)
	}
	return c.Redirect(h.clientURL+"/login?code="+exchange, fiber.StatusTemporaryRedirect)
}

type exchangeCodeReq struct {
	Code string `json:"code" validate:"required"`
}

func (h *AuthHandler) ExchangeCode(c *fiber.Ctx) error {
	var req exchangeCodeReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	contact, pair, err := h.svc.ExchangeCode(c.Context(), req.Code)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	h.setRefreshCookie(c, pair.RefreshToken)
	return httpx.Success(c, fiber.StatusOK, "login successful", fiber.Map{
		"user":        contact,
		"accessToken": pair.AccessToken,
	})
}
