package rsvp

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventLabel identifies the occasion every confirmation belongs to.
const EventLabel = "Defensa de Tesis – Steven Sagnay"

const MinNameLength = 2

type Confirmation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Event       string    `json:"event"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// CreateRequest is the shape of the RSVP form body. Name is a pointer so a
// missing field and an explicit null both reach validation as "absent".
type CreateRequest struct {
	Name *string `json:"name"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims the submitted name and checks it against the name rules.
func (r CreateRequest) Normalize() (string, error) {
	if r.Name == nil {
		return "", &ValidationError{Field: "name", Rule: "required"}
	}

	name := strings.TrimSpace(*r.Name)

	err := validate.Var(name, "required,min=2")

	if err != nil {
		rule := "min"
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			rule = fieldErrs[0].Tag()
		}

		return "", &ValidationError{Field: "name", Rule: rule, Err: err}
	}

	return name, nil
}

// A factory to build a Confirmation from an already normalized name.
func NewConfirmation(name string, now time.Time) Confirmation {
	return Confirmation{
		ID:          primitive.NewObjectID().Hex(),
		Name:        name,
		Event:       EventLabel,
		ConfirmedAt: now.UTC(),
	}
}
