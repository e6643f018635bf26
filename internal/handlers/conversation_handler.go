package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
)

type ConversationHandler struct {
	*BaseHandler
	conversationService services.ConversationService
}

func NewConversationHandler(base *BaseHandler, conversationService services.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		BaseHandler:         base,
		conversationService: conversationService,
	}
}

func (h *ConversationHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	conversations := rg.Group("/conversations", g.Auth)
	{
		conversations.GET("", h.ListConversations)
		conversations.POST("", h.CreateConversation)
		conversations.GET("/:id", h.GetConversation)
		conversations.POST("/:id/messages", h.SendMessage)
		conversations.PATCH("/:id/read", h.MarkConversationRead)
	}

	rg.PATCH("/messages/:id/read", g.Auth, h.MarkMessageRead)
}

// CreateConversation godoc
// @Summary Начать диалог
// @Description Если диалог с этим участником уже есть, он возвращается со статусом 200
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.CreateConversationRequest true "Собеседник и вакансия"
// @Success 201 {object} dto.ConversationResponse
// @Success 200 {object} dto.ConversationResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/conversations [post]
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.CreateConversationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	conv, created, err := h.conversationService.CreateConversation(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, conv)
}

func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	convs, err := h.conversationService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

func (h *ConversationHandler) GetConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	convID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	conv, err := h.conversationService.GetConversation(c.Request.Context(), userID, convID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// SendMessage godoc
// @Summary Отправить сообщение
// @Tags chat
// @Accept json
// @Produce json
// @Param id path int true "ID диалога"
// @Param request body dto.SendMessageRequest true "Сообщение"
// @Success 201 {object} dto.ChatMessageResponse
// @Failure 403 {object} apperrors.ErrorResponse "Не участник диалога"
// @Router /api/conversations/{id}/messages [post]
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	convID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	msg, err := h.conversationService.SendMessage(c.Request.Context(), userID, convID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ConversationHandler) MarkConversationRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	convID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	resp, err := h.conversationService.MarkConversationRead(c.Request.Context(), userID, convID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) MarkMessageRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	msgID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	resp, err := h.conversationService.MarkMessageRead(c.Request.Context(), userID, msgID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
