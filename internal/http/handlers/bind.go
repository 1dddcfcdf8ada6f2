package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	bindEmpty      = "empty_body"
	bindSyntax     = "invalid_json_syntax"
	bindType       = "invalid_json_type"
	bindValidation = "validation"
	bindTooLarge   = "too_large"
	bindUnknown    = "unknown"
)

// BindError says why a body could not be bound and, when known, which JSON
// field was at fault.
type BindError struct {
	Kind  string
	Field string
	Rule  string
	Err   error
}

func (e *BindError) Error() string {
	if e.Field != "" {
		return "bind " + e.Kind + " (" + e.Field + "): " + e.Err.Error()
	}
	return "bind " + e.Kind + ": " + e.Err.Error()
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func bindJSON(ctx *gin.Context, out interface{}) *BindError {
	err := ctx.ShouldBindJSON(out)
	if err == nil {
		return nil
	}

	return classifyBindError(err, out)
}

func classifyBindError(err error, out interface{}) *BindError {
	rootType := baseStructType(out)

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return &BindError{Kind: bindTooLarge, Err: err}
	}

	if errors.Is(err, io.EOF) {
		return &BindError{Kind: bindEmpty, Err: err}
	}

	var validatorError validator.ValidationErrors
	if errors.As(err, &validatorError) && len(validatorError) > 0 {
		fe := validatorError[0]
		return &BindError{
			Kind:  bindValidation,
			Field: jsonFieldName(rootType, fe.StructField()),
			Rule:  fe.Tag(),
			Err:   err,
		}
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &BindError{Kind: bindSyntax, Err: err}
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := jsonFieldName(rootType, typeError.Field)
		if field == "" {
			field = strings.TrimSpace(typeError.Field)
		}
		return &BindError{Kind: bindType, Field: field, Rule: "type", Err: err}
	}

	return &BindError{Kind: bindUnknown, Err: err}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// jsonFieldName maps a Go field name (or an already-JSON name coming from
// encoding/json) to the name clients use.
func jsonFieldName(rootType reflect.Type, name string) string {
	if rootType == nil || name == "" {
		return name
	}

	if sf, ok := rootType.FieldByName(name); ok {
		return jsonNameFromStructField(sf)
	}

	return name
}

func jsonNameFromStructField(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}
