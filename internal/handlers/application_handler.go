package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	rg.PATCH("/applications/:id", g.Auth, h.UpdateStatus)
}

// UpdateStatus godoc
// @Summary Изменить статус отклика
// @Description Разрешены pending→accepted|rejected|completed и accepted→completed|rejected
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "ID отклика"
// @Param request body dto.UpdateApplicationStatusRequest true "Новый статус"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} apperrors.ErrorResponse "Не владелец вакансии"
// @Failure 409 {object} apperrors.ErrorResponse "Переход запрещен"
// @Router /api/applications/{id} [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	appID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.UpdateStatus(c.Request.Context(), userID, appID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
