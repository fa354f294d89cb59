package main

import (
	"errors"
	"fmt"
	"hotelbooking/src/types"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var isoDate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := types.ParseDate(date)
	return err == nil
}

// gtdate=Field passes when the date is strictly after the named sibling field.
var gtDate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := types.ParseDate(date)
	if err != nil {
		return false
	}
	other, ok := fl.Parent().FieldByName(fl.Param()).Interface().(string)
	if !ok {
		return false
	}
	o, err := types.ParseDate(other)
	if err != nil {
		// reported by the sibling's own rules
		return true
	}
	return d.After(o)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
		v.RegisterValidation("isodate", isoDate)
		v.RegisterValidation("gtdate", gtDate)
	}
}

// bindingError turns a gin binding failure into field messages for the UI.
func bindingError(err error) error {
	verr := types.NewValidationError()
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("body", "must be a valid JSON booking request")
		return verr
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid id"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "gtdate":
		return "must be after checkinDate"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}
