package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/httpx"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/middleware"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type identityReq struct {
	ID   string `json:"id" validate:"required"`
	Kind string `json:"kind" validate:"required,oneof=admins employees"`
}

func (r identityReq) identity() models.Identity {
	return models.Identity{ID: r.ID, Kind: models.Kind(r.Kind)}
}

type accessChatReq struct {
	User identityReq `json:"user" validate:"required"`
}

// AccessChat opens (or creates) the direct conversation with another user.
func (h *ChatHandler) AccessChat(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req accessChatReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	conv, created, err := h.svc.AccessChat(c.Context(), who, req.User.identity())
	if err != nil {
		return httpx.FromErr(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return httpx.Success(c, status, "ok", conv)
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	convs, err := h.svc.ListConversations(c.Context(), who)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", convs)
}

type createGroupReq struct {
	Name    string        `json:"name" validate:"required"`
	Members []identityReq `json:"members" validate:"required,min=2,dive"`
}

func (h *ChatHandler) CreateGroup(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req createGroupReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	members := make([]models.Identity, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, m.identity())
	}
	conv, err := h.svc.CreateGroup(c.Context(), who, req.Name, members)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "group created", conv)
}

func (h *ChatHandler) Contacts(c *fiber.Ctx) error {
	contacts, err := h.svc.Contacts(c.Context(), c.Query("search"))
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", contacts)
}

type sendMessageReq struct {
	ConversationID string              `json:"conversationId" validate:"required"`
	Content        string              `json:"content"`
	Attachments    []models.Attachment `json:"attachments"`
	ReplyTo        string              `json:"replyTo"`
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	msg, err := h.svc.SendMessage(c.Context(), who, req.ConversationID, req.Content, req.Attachments, req.ReplyTo)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusCreated, "message sent", msg)
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	msgs, err := h.svc.ListMessages(c.Context(), who, c.Params("chatId"))
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "ok", msgs)
}

type reactReq struct {
	MessageID string `json:"messageId" validate:"required"`
	Emoji     string `json:"emoji" validate:"required"`
}

// React toggles the caller's reaction on a message.
func (h *ChatHandler) React(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req reactReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	msg, err := h.svc.ReactToMessage(c.Context(), who, req.MessageID, req.Emoji)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "reaction updated", msg)
}

type emojiReq struct {
	Emoji string `json:"emoji" validate:"required"`
}

func (h *ChatHandler) UpdateEmoji(c *fiber.Ctx) error {
	who, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return httpx.FromErr(c, apperr.ErrUnauthorized)
	}
	var req emojiReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.FromErr(c, apperr.ErrBadRequest)
	}
	if err := checkBody(req); err != nil {
		return httpx.FromErr(c, err)
	}
	conv, err := h.svc.UpdateEmoji(c.Context(), who, c.Params("chatId"), req.Emoji)
	if err != nil {
		return httpx.FromErr(c, err)
	}
	return httpx.Success(c, fiber.StatusOK, "emoji updated", conv)
}
