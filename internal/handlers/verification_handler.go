package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/services"
	"hyperlocal_backend/internal/services/dto"
	"hyperlocal_backend/pkg/apperrors"
)

type VerificationHandler struct {
	*BaseHandler
	verificationService services.VerificationService
}

func NewVerificationHandler(base *BaseHandler, verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		BaseHandler:         base,
		verificationService: verificationService,
	}
}

func (h *VerificationHandler) RegisterRoutes(rg *gin.RouterGroup, g *Guards) {
	verification := rg.Group("/verification", g.Auth)
	{
		verification.POST("/submit", h.SubmitDocument)
		verification.GET("/documents", h.ListDocuments)
	}
}

// SubmitDocument godoc
// @Summary Загрузить документ для верификации
// @Description Изображение нормализуется в JPEG. Статус верификации пользователя становится pending.
// @Tags verification
// @Accept multipart/form-data
// @Produce json
// @Param documentType formData string true "aadhaar | pan | driving_license | voter_id"
// @Param documentNumber formData string true "Номер документа"
// @Param image formData file true "Фото документа"
// @Success 201 {object} dto.VerificationDocumentResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Пользователь уже верифицирован"
// @Router /api/verification/submit [post]
func (h *VerificationHandler) SubmitDocument(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitVerificationRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"image": "required"}))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Cannot read uploaded file"))
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.CtxWithError(c.Request.Context(), "Failed to close uploaded file", cerr)
		}
	}()

	doc, err := h.verificationService.SubmitDocument(c.Request.Context(), userID, &req, &services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *VerificationHandler) ListDocuments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	docs, err := h.verificationService.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}
