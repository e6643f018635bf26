package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	admin := rg.Group("/admin", g.Admin)
	{
		admin.PATCH("/verification/:id", h.ReviewDocument)
		admin.DELETE("/users", h.DeleteAllUsers)
	}
}

// ReviewDocument godoc
// @Summary Рассмотреть документ верификации
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path int true "ID документа"
// @Param request body dto.ReviewDocumentRequest true "verified | rejected"
// @Success 200 {object} dto.ReviewDocumentResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Документ уже проверен"
// @Router /api/admin/verification/{id} [patch]
func (h *AdminHandler) ReviewDocument(c *gin.Context) {
	docID, ok := h.paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewDocumentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.adminService.ReviewDocument(c.Request.Context(), docID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) DeleteAllUsers(c *gin.Context) {
	if err := h.adminService.DeleteAllUsers(c.Request.Context()); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	logger.CtxWarn(c.Request.Context(), "All users deleted by admin", "ip", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "All users deleted"})
}
