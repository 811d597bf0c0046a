package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// 入力チェックの失敗1件分
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// HTTPErrorは想定内の失敗。Errorsがあれば一覧、なければMessageを返す
type HTTPError struct {
	Status  int
	Message string
	Errors  []FieldError
}

func (e *HTTPError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Errors[0].Msg)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 400 + errors配列
func NewValidationError(errs ...FieldError) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Errors:  errs,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
