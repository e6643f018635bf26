package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
)

type RatingHandler struct {
	*BaseHandler
	ratingService services.RatingService
}

func NewRatingHandler(base *BaseHandler, ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{
		BaseHandler:   base,
		ratingService: ratingService,
	}
}

func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	rg.POST("/ratings", g.Auth, h.CreateRating)
	rg.GET("/workers/:id/ratings", h.ListWorkerRatings)
}

// CreateRating godoc
// @Summary Оценить работника за выполненную работу
// @Description Доступно владельцу вакансии, если отклик работника в статусе completed. Одна оценка на пару вакансия/работник.
// @Tags ratings
// @Accept json
// @Produce json
// @Param request body dto.CreateRatingRequest true "Оценка 1..5"
// @Success 201 {object} dto.CreateRatingResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Работа не завершена или уже оценена"
// @Router /api/ratings [post]
func (h *RatingHandler) CreateRating(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.CreateRatingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.ratingService.CreateRating(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RatingHandler) ListWorkerRatings(c *gin.Context) {
	workerID, ok := h.paramID(c, "id")
	if !ok {
		return
	}

	ratings, err := h.ratingService.ListWorkerRatings(c.Request.Context(), workerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}
