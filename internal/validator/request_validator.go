package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"orderapi/internal/usecase"

	playground "github.com/go-playground/validator/v10"
)

// echo.Validator の実装。失敗は usecase.HTTPError(400, errors配列) で返す
type RequestValidator struct {
	v *playground.Validate
}

func NewRequestValidator() *RequestValidator {
	v := playground.New()

	//エラーのparamはjson名にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// 空白だけもNG
	_ = v.RegisterValidation("notblank", func(fl playground.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ves playground.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	fields := make([]usecase.FieldError, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, usecase.FieldError{
			Msg:      message(fe),
			Param:    param(fe),
			Location: "body",
		})
	}
	return usecase.NewValidationError(fields...)
}

// "OrderUpsertRequest.items[0].name" -> "items[0].name"
func param(fe playground.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe playground.FieldError) string {
	field := fe.Field()
	if field != "" {
		field = strings.ToUpper(field[:1]) + field[1:]
	}

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Please include a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
