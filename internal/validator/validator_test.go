package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Username string `json:"username" validate:"required,min=3,username"`
	Role     string `json:"role" validate:"required,is-user-role"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type statusInput struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

type reviewInput struct {
	Status string `form:"status" validate:"required,is-review-status"`
	Type   string `form:"documentType" validate:"required,is-document-type"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Validate(&registerInput{Username: "a b", Role: "admin", Email: "nope"})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "username")
	assert.Contains(t, verr.Errors, "role")
	assert.Contains(t, verr.Errors, "email")
	assert.Equal(t, "Must be one of: worker, employer", verr.Errors["role"])
}

func TestDomainRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&registerInput{Username: "ravi_k", Role: "worker"}))
	assert.NoError(t, v.Validate(&statusInput{Status: "completed"}))
	assert.Error(t, v.Validate(&statusInput{Status: "withdrawn"}))

	assert.NoError(t, v.Validate(&reviewInput{Status: "verified", Type: "voter_id"}))

	err := v.Validate(&reviewInput{Status: "pending", Type: "ration_card"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "status")
	assert.Contains(t, verr.Errors, "documentType")
}

type documentInput struct {
	DocumentType   string `form:"documentType" validate:"required,is-document-type"`
	DocumentNumber string `form:"documentNumber" validate:"required,is-document-number=DocumentType"`
}

func TestDocumentNumberFormat(t *testing.T) {
	v := New()

	valid := []documentInput{
		{DocumentType: "aadhaar", DocumentNumber: "1234 5678 9012"},
		{DocumentType: "aadhaar", DocumentNumber: "1234-5678-9012"},
		{DocumentType: "pan", DocumentNumber: "abcde1234f"},
		{DocumentType: "voter_id", DocumentNumber: "ABC1234567"},
		{DocumentType: "driving_license", DocumentNumber: "MH12 20110012345"},
		{DocumentType: "passport", DocumentNumber: "K1234567"},
	}
	for _, in := range valid {
		assert.NoError(t, v.Validate(&in), "%s %q", in.DocumentType, in.DocumentNumber)
	}

	invalid := []documentInput{
		{DocumentType: "aadhaar", DocumentNumber: "1234"},
		{DocumentType: "pan", DocumentNumber: "ABCDE12345"},
		{DocumentType: "passport", DocumentNumber: "X1"},
		{DocumentType: "voter_id", DocumentNumber: "1234567890"},
	}
	for _, in := range invalid {
		err := v.Validate(&in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "%s %q", in.DocumentType, in.DocumentNumber)
		assert.Equal(t, "Invalid number format for this document type", verr.Errors["documentNumber"])
	}

	// неизвестный тип отклоняется только своим правилом
	err := v.Validate(&documentInput{DocumentType: "ration_card", DocumentNumber: "123"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "documentType")
	assert.NotContains(t, verr.Errors, "documentNumber")
}
