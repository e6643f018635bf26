package models

import (
	"regexp"
	"strings"
)

type UserRole string
type VerificationStatus string
type ApplicationStatus string
type DocumentType string
type DocumentStatus string

const (
	UserRoleWorker   UserRole = "worker"
	UserRoleEmployer UserRole = "employer"

	VerificationStatusNotSubmitted VerificationStatus = "not_submitted"
	VerificationStatusPending      VerificationStatus = "pending"
	VerificationStatusVerified     VerificationStatus = "verified"
	VerificationStatusRejected     VerificationStatus = "rejected"

	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCompleted ApplicationStatus = "completed"

	DocumentTypeAadhaar        DocumentType = "aadhaar"
	DocumentTypePAN            DocumentType = "pan"
	DocumentTypeVoterID        DocumentType = "voter_id"
	DocumentTypeDrivingLicense DocumentType = "driving_license"
	DocumentTypePassport       DocumentType = "passport"

	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// applicationTransitions - разрешенные переходы статуса отклика.
// Из rejected и completed выхода нет.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:  {ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusCompleted},
	ApplicationStatusAccepted: {ApplicationStatusCompleted, ApplicationStatusRejected},
}

// CanTransitionTo сообщает, можно ли перевести отклик из s в next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusCompleted:
		return true
	}
	return false
}

func (r UserRole) IsValid() bool {
	return r == UserRoleWorker || r == UserRoleEmployer
}

func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeAadhaar, DocumentTypePAN, DocumentTypeVoterID, DocumentTypeDrivingLicense, DocumentTypePassport:
		return true
	}
	return false
}

var documentNumberPatterns = map[DocumentType]*regexp.Regexp{
	DocumentTypeAadhaar:        regexp.MustCompile(`^[0-9]{12}$`),
	DocumentTypePAN:            regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`),
	DocumentTypeVoterID:        regexp.MustCompile(`^[A-Z]{3}[0-9]{7}$`),
	DocumentTypeDrivingLicense: regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{4,16}$`),
	DocumentTypePassport:       regexp.MustCompile(`^[A-Z][0-9]{7}$`),
}

// IsValidNumber проверяет формат номера для типа документа.
// Пробелы и дефисы при сравнении игнорируются, регистр тоже.
func (t DocumentType) IsValidNumber(number string) bool {
	pattern, ok := documentNumberPatterns[t]
	if !ok {
		return false
	}
	compact := strings.NewReplacer(" ", "", "-", "").Replace(strings.ToUpper(strings.TrimSpace(number)))
	return pattern.MatchString(compact)
}
