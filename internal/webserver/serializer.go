package webserver

import (
	"fmt"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

// JsonSerializer swaps echo's encoding/json for jsoniter.
type JsonSerializer struct {
	json jsoniter.API
}

func NewJsonSerializer() *JsonSerializer {
	return &JsonSerializer{json: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (s *JsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (s *JsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := s.json.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Unmarshal error: %v", err)).SetInternal(err)
	}
	return nil
}

// WebValidator adapts go-playground/validator to echo's Validator hook.
type WebValidator struct {
	validate *validator.Validate
}

func NewWebValidator() *WebValidator {
	return &WebValidator{validate: validator.New()}
}

func (v *WebValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
