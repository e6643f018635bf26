package validator

import (
	"log"
	"reflect"
	"regexp"

	"hyperlocal_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// registerCustomRules регистрирует доменные правила валидации.
func registerCustomRules(v *validator.Validate) {
	// Ошибка регистрации - ошибка программиста, запускаться с ней нельзя.
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-document-type", validateDocumentType)
	mustRegister("is-review-status", validateReviewStatus)
	mustRegister("username", validateUsername)
	mustRegister("is-document-number", validateDocumentNumber)
}

// Пустые значения пропускаются: для них есть 'required'.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ApplicationStatus(value).IsValid()
}

func validateDocumentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.DocumentType(value).IsValid()
}

// validateReviewStatus - итог проверки документа: pending не допускается.
func validateReviewStatus(fl validator.FieldLevel) bool {
	switch models.DocumentStatus(fl.Field().String()) {
	case "", models.DocumentStatusVerified, models.DocumentStatusRejected:
		return true
	}
	return false
}

func validateUsername(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || usernamePattern.MatchString(value)
}

// validateDocumentNumber сверяет номер с форматом типа документа из соседнего
// поля, имя которого передается параметром: is-document-number=DocumentType.
// Неизвестный тип пропускается, о нем сообщит is-document-type.
func validateDocumentNumber(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return false
	}
	typeField := parent.FieldByName(fl.Param())
	if !typeField.IsValid() || typeField.Kind() != reflect.String {
		return false
	}
	docType := models.DocumentType(typeField.String())
	if !docType.IsValid() {
		return true
	}
	return docType.IsValidNumber(value)
}
