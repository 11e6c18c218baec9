package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"

	"booktracker/internal/microservices/http-api/models"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidBody is returned when the request body is not a JSON object.
var ErrInvalidBody = errors.New("invalid JSON body")

var (
	statusMessage = "Status must be one of: " + joinStatuses(", ")
	ratingMessage = "Rating must be a number between 1 and 10"
	notesType     = "Notes must be a string"
)

// BookInput used for POST /api/books and PUT /api/books/:id.
// PUT replaces every mutable field, so both routes share the same rules.
type BookInput struct {
	Title  string  `json:"title" validate:"required,max=500"`
	Author string  `json:"author" validate:"required,max=200"`
	Status string  `json:"status" validate:"required,oneof=to-read reading completed"`
	Rating *int    `json:"rating,omitempty" validate:"omitnil,min=1,max=10"`
	Notes  *string `json:"notes,omitempty" validate:"omitnil,max=5000"`
}

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, k := range slices.Sorted(maps.Keys(fe)) {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add keeps the first message recorded for a field.
func (fe FieldErrors) add(field, message string) {
	if _, exists := fe[field]; !exists {
		fe[field] = message
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so FieldErrors keys match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeBookInput turns a request body into a validated, trimmed BookInput.
// A body that is not a JSON object yields ErrInvalidBody; any rule violation
// yields FieldErrors holding every failing field.
func DecodeBookInput(body []byte) (BookInput, error) {
	var raw map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 {
		raw = map[string]json.RawMessage{}
	} else if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return BookInput{}, ErrInvalidBody
	}

	fields := FieldErrors{}
	var in BookInput

	// wrong JSON types are field errors, not decode failures
	if !decodeString(raw["title"], &in.Title) || isBlank(in.Title) {
		fields.add("title", "Title is required")
	}
	if !decodeString(raw["author"], &in.Author) || isBlank(in.Author) {
		fields.add("author", "Author is required")
	}
	if !decodeString(raw["status"], &in.Status) {
		fields.add("status", statusMessage)
	}
	if rating, ok := decodeRating(raw["rating"]); ok {
		in.Rating = rating
	} else {
		fields.add("rating", ratingMessage)
	}
	if notes, ok := decodeOptionalString(raw["notes"]); ok {
		in.Notes = notes
	} else {
		fields.add("notes", notesType)
	}

	// length limits apply to the value as sent, before trimming
	for field, msg := range in.Validate() {
		fields.add(field, msg)
	}
	in.Normalize()

	if len(fields) > 0 {
		return BookInput{}, fields
	}
	return in, nil
}

// Normalize trims the free-text fields.
func (in *BookInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if in.Notes != nil {
		n := strings.TrimSpace(*in.Notes)
		in.Notes = &n
	}
}

// Validate checks the field rules and returns nil when the input is valid.
func (in BookInput) Validate() FieldErrors {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	fields := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.add("body", err.Error())
		return fields
	}
	for _, fe := range verrs {
		fields.add(fe.Field(), messageFor(fe))
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "title", "author":
		label := strings.ToUpper(fe.Field()[:1]) + fe.Field()[1:]
		if fe.Tag() == "max" {
			return fmt.Sprintf("%s must be %s characters or less", label, fe.Param())
		}
		return label + " is required"
	case "status":
		return statusMessage
	case "rating":
		return ratingMessage
	case "notes":
		return fmt.Sprintf("Notes must be %s characters or less", fe.Param())
	}
	return fe.Error()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// decodeString leaves dst empty for a missing or null field so the required rule reports it.
func decodeString(raw json.RawMessage, dst *string) bool {
	if len(raw) == 0 || isNull(raw) {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

// decodeOptionalString treats only a missing key as absent; null is not a string.
func decodeOptionalString(raw json.RawMessage) (*string, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	if isNull(raw) {
		return nil, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return &s, true
}

// decodeRating accepts any JSON number with an integral value. Only a
// missing key is absent; null is not a number.
func decodeRating(raw json.RawMessage) (*int, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	if isNull(raw) {
		return nil, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, false
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return nil, false
	}
	v := int(f)
	return &v, true
}

func joinStatuses(sep string) string {
	names := make([]string, 0, len(models.BookStatuses))
	for _, s := range models.BookStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, sep)
}
