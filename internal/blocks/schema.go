package blocks

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// Schema validates one kind's content.
type Schema interface {
	// Validate checks content and returns it with defaults applied and
	// unknown fields removed. On failure the error is a *ValidationError.
	Validate(content map[string]any) (map[string]any, error)
	// Decode fills defaults and returns the typed content without
	// validating it, for renderers that must draw partial input.
	Decode(content map[string]any) (any, error)
}

type defaulter interface {
	applyDefaults()
}

type structSchema[T any, PT interface {
	*T
	defaulter
}] struct {
	kind     block.Kind
	validate *validator.Validate
}

func newSchema[T any, PT interface {
	*T
	defaulter
}](kind block.Kind, v *validator.Validate) Schema {
	return structSchema[T, PT]{kind: kind, validate: v}
}

func (s structSchema[T, PT]) decode(content map[string]any) (PT, error) {
	out := PT(new(T))
	if len(content) > 0 {
		data, err := json.Marshal(content)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, out); err != nil {
			return nil, err
		}
	}
	out.applyDefaults()
	return out, nil
}

func (s structSchema[T, PT]) Decode(content map[string]any) (any, error) {
	out, err := s.decode(content)
	if err != nil {
		return nil, decodeIssue(s.kind, err)
	}
	return out, nil
}

func (s structSchema[T, PT]) Validate(content map[string]any) (map[string]any, error) {
	out, err := s.decode(content)
	if err != nil {
		return nil, decodeIssue(s.kind, err)
	}
	if err := s.validate.Struct(out); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return nil, newValidationError(s.kind, ve)
		}
		return nil, err
	}
	return toMap(out)
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// FieldIssue is one rejected field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists everything wrong with a block's content.
type ValidationError struct {
	Kind   block.Kind   `json:"kind"`
	Issues []FieldIssue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + " " + is.Message
	}
	return fmt.Sprintf("invalid %s block: %s", e.Kind, strings.Join(parts, "; "))
}

func newValidationError(kind block.Kind, errs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{Kind: kind}
	for _, fe := range errs {
		ve.Issues = append(ve.Issues, FieldIssue{Field: fieldPath(fe.Namespace()), Message: message(fe)})
	}
	return ve
}

func decodeIssue(kind block.Kind, err error) *ValidationError {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &ValidationError{Kind: kind, Issues: []FieldIssue{{
			Field:   te.Field,
			Message: "must be " + jsonKind(te.Type),
		}}}
	}
	return &ValidationError{Kind: kind, Issues: []FieldIssue{{Field: "content", Message: err.Error()}}}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice:
		return "a list"
	default:
		return "an object"
	}
}

// fieldPath keeps the JSON names of a validator namespace, dropping the
// root struct name and embedded struct segments.
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")[1:]
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && p[0] >= 'A' && p[0] <= 'Z' {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return "needs at least " + fe.Param() + " entries"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice {
			return "allows at most " + fe.Param() + " entries"
		}
		return "must be at most " + fe.Param()
	case "anchor":
		return "must be URL friendly"
	default:
		return "failed " + fe.Tag()
	}
}

var anchorPattern = regexp.MustCompile(`^[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*$`)

// newValidate builds the validator shared by every schema: field names are
// reported by their JSON name, and "anchor" checks URL friendly ids.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("anchor", func(fl validator.FieldLevel) bool {
		return anchorPattern.MatchString(fl.Field().String())
	})
	return v
}

// advancedRules validates the advanced settings shared by every kind.
type advancedRules struct {
	AnchorID string  `json:"anchorId" validate:"omitempty,anchor"`
	CTA      *Action `json:"cta,omitempty"`
}

func validateAdvanced(v *validator.Validate, kind block.Kind, a *block.Advanced) error {
	if a == nil {
		return nil
	}
	rules := advancedRules{AnchorID: a.AnchorID}
	if a.CTA != nil {
		rules.CTA = &Action{Label: a.CTA.Label, Href: a.CTA.Href, Variant: a.CTA.Variant, Target: a.CTA.Target}
	}
	if err := v.Struct(rules); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			verr := newValidationError(kind, ve)
			for i := range verr.Issues {
				verr.Issues[i].Field = "advanced." + verr.Issues[i].Field
			}
			return verr
		}
		return err
	}
	return nil
}
