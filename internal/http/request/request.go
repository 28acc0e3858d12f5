// Package request содержит общие помощники для разбора тел запросов.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// MaxBodyBytes ограничение размера тела запроса.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody тело запроса пустое.
var ErrEmptyBody = errors.New("empty request body")

// NewValidator возвращает валидатор, который называет поля по json-тегам.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeJSON читает JSON из тела запроса в dst. Неизвестные поля игнорируются.
func DecodeJSON(r *http.Request, dst any) error {
	const op = "request.DecodeJSON"

	err := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", op, ErrEmptyBody)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
