// Package validator adapts go-playground/validator to Echo's Validator
// interface so handlers can enforce request shapes with struct tags
// (the booking count bound lives on the request DTO itself).
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator wraps a single validator instance; it is safe for
// concurrent use and cached struct metadata makes repeat validations
// cheap.
type Validator struct {
	validate *playground.Validate
}

// New returns a Validator ready to register on echo.Echo.
func New() *Validator {
	return &Validator{validate: playground.New()}
}

// Validate implements echo.Validator. Violations surface as 400s with
// the validator's field report.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
