package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"sokoni-backend/internal/apperr"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateStruct walks validate tags on a struct and returns a
// validation error listing every failed field
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", v.Kind())
	}

	var fieldErrors []apperr.FieldError
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		value := v.Field(i)
		for _, rule := range strings.Split(tag, ",") {
			if msg := checkRule(rule, value); msg != "" {
				fieldErrors = append(fieldErrors, apperr.FieldError{Field: name, Message: msg})
			}
		}
	}

	if len(fieldErrors) > 0 {
		return apperr.Validation("validation failed", fieldErrors...)
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	return strings.Split(tag, ",")[0]
}

func checkRule(rule string, value reflect.Value) string {
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			if rule == "required" {
				return "is required"
			}
			return ""
		}
		value = value.Elem()
	}

	switch {
	case rule == "required":
		if isZeroValue(value) {
			return "is required"
		}
	case rule == "email":
		s := value.String()
		if s != "" && !emailRegex.MatchString(s) {
			return "must be a valid email address"
		}
	case strings.HasPrefix(rule, "min="):
		limit, _ := strconv.Atoi(strings.TrimPrefix(rule, "min="))
		switch value.Kind() {
		case reflect.String:
			if len(value.String()) < limit {
				return fmt.Sprintf("must be at least %d characters", limit)
			}
		case reflect.Int, reflect.Int64:
			if value.Int() < int64(limit) {
				return fmt.Sprintf("must be at least %d", limit)
			}
		case reflect.Float64:
			if value.Float() < float64(limit) {
				return fmt.Sprintf("must be at least %d", limit)
			}
		}
	case strings.HasPrefix(rule, "max="):
		limit, _ := strconv.Atoi(strings.TrimPrefix(rule, "max="))
		switch value.Kind() {
		case reflect.String:
			if len(value.String()) > limit {
				return fmt.Sprintf("must be at most %d characters", limit)
			}
		case reflect.Int, reflect.Int64:
			if value.Int() > int64(limit) {
				return fmt.Sprintf("must be at most %d", limit)
			}
		case reflect.Float64:
			if value.Float() > float64(limit) {
				return fmt.Sprintf("must be at most %d", limit)
			}
		}
	}
	return ""
}

func isZeroValue(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.String:
		return strings.TrimSpace(value.String()) == ""
	case reflect.Int, reflect.Int64:
		return value.Int() == 0
	case reflect.Float64:
		return value.Float() == 0
	case reflect.Slice, reflect.Map:
		return value.Len() == 0
	}
	return value.IsZero()
}
