package validator_test

import (
	"net/http"
	"testing"

	"orderapi/internal/usecase"
	"orderapi/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemReq struct {
	Name string `json:"name" validate:"notblank"`
}

type orderReq struct {
	ID      string    `json:"_id"`
	Address string    `json:"address" validate:"notblank"`
	Items   []itemReq `json:"items" validate:"omitempty,dive"`
}

type signupReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func requireValidationError(t *testing.T, err error) *usecase.HTTPError {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	return he
}

func TestRequestValidator_OK(t *testing.T) {
	v := validator.NewRequestValidator()

	assert.NoError(t, v.Validate(&orderReq{Address: "Tokyo"}))
	assert.NoError(t, v.Validate(&orderReq{Address: "Tokyo", Items: []itemReq{{Name: "pen"}}}))
	assert.NoError(t, v.Validate(&signupReq{Email: "a@test.com", Password: "password123"}))
}

func TestRequestValidator_BlankAddress(t *testing.T) {
	v := validator.NewRequestValidator()

	for _, addr := range []string{"", "   ", "\t\n"} {
		he := requireValidationError(t, v.Validate(&orderReq{Address: addr}))
		require.Len(t, he.Errors, 1)
		assert.Equal(t, "Address is required", he.Errors[0].Msg)
		assert.Equal(t, "address", he.Errors[0].Param)
		assert.Equal(t, "body", he.Errors[0].Location)
	}
}

func TestRequestValidator_ItemNameParamIsIndexed(t *testing.T) {
	v := validator.NewRequestValidator()

	he := requireValidationError(t, v.Validate(&orderReq{
		Address: "Tokyo",
		Items:   []itemReq{{Name: "ok"}, {Name: " "}},
	}))
	require.Len(t, he.Errors, 1)
	assert.Equal(t, "items[1].name", he.Errors[0].Param)
	assert.Equal(t, "Name is required", he.Errors[0].Msg)
}

func TestRequestValidator_CollectsAllErrors(t *testing.T) {
	v := validator.NewRequestValidator()

	he := requireValidationError(t, v.Validate(&signupReq{Email: "nope", Password: "short"}))
	require.Len(t, he.Errors, 2)

	byParam := map[string]string{}
	for _, fe := range he.Errors {
		byParam[fe.Param] = fe.Msg
	}
	assert.Equal(t, "Please include a valid email", byParam["email"])
	assert.Equal(t, "Password must be at least 8 characters", byParam["password"])
}
