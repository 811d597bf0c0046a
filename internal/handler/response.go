package handler

import (
	"net/http"

	"orderapi/internal/middleware"
	"orderapi/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 想定内の失敗（not foundなど）
type MessageResponse struct {
	Msg string `json:"msg"`
}

// 入力チェックの失敗一覧
type ErrorsResponse struct {
	Errors []usecase.FieldError `json:"errors"`
}

const serverErrorText = "Server Error"

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if len(he.Errors) > 0 {
			return c.JSON(he.Status, ErrorsResponse{Errors: he.Errors})
		}
		return c.JSON(he.Status, MessageResponse{Msg: he.Message})
	}

	//500 中身は返さずログだけ
	log := middleware.Logger(c)
	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
	return c.String(http.StatusInternalServerError, serverErrorText)
}

// bind失敗はvalidationと同じ形で返す
func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorsResponse{Errors: []usecase.FieldError{
		{Msg: "Invalid request body", Location: "body"},
	}})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
