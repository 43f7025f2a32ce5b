// Package validation checks the length constraints on user supplied text
// and maps gin binding failures to field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed check, keyed by the JSON field name.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Rule bounds the byte length of a field. A length of 0 or 1 is always
// reported as empty, regardless of Min.
type Rule struct {
	Name string
	Min  int
	Max  int
}

func (r Rule) Validate(value string) error {
	n := len(value)
	switch {
	case n <= 1:
		return &FieldError{Field: r.Name, Message: r.Name + " cannot be empty"}
	case n < r.Min:
		return &FieldError{Field: r.Name, Message: r.Name + " too short"}
	case n > r.Max:
		return &FieldError{Field: r.Name, Message: r.Name + " too long"}
	}
	return nil
}

var (
	Username = Rule{Name: "username", Min: 1, Max: 20}
	Email    = Rule{Name: "email", Min: 1, Max: 20}
	Password = Rule{Name: "password", Min: 8, Max: 40}
	Title    = Rule{Name: "title", Min: 1, Max: 20}
	Content  = Rule{Name: "content", Min: 1, Max: 225}
)

// tags maps binding tags to their rule.
var tags = map[string]Rule{
	"username_len": Username,
	"email_len":    Email,
	"password_len": Password,
	"title_len":    Title,
	"content_len":  Content,
}

// Errors collects field failures for a single request.
type Errors map[string]string

func (e Errors) Add(err error) {
	var fe *FieldError
	if errors.As(err, &fe) {
		if _, ok := e[fe.Field]; !ok {
			e[fe.Field] = fe.Message
		}
	}
}

func (e Errors) Empty() bool { return len(e) == 0 }

// Register installs the length tags and makes validator report JSON
// field names.
func Register(v *validator.Validate) error {
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
	for tag, rule := range tags {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule.Validate(fl.Field().String()) == nil
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterBindings installs the tags on gin's default validator engine.
func RegisterBindings() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = Register(v)
	})
	return registerErr
}

// FromBinding converts validator errors into Errors. ok is false when err
// is not a validation failure (malformed JSON, wrong types).
func FromBinding(err error) (Errors, bool) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil, false
	}
	out := Errors{}
	for _, fe := range ves {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if rule, ok := tags[fe.Tag()]; ok {
			value, _ := fe.Value().(string)
			if verr := rule.Validate(value); verr != nil {
				out.Add(verr)
				continue
			}
		}
		out[field] = field + " is " + describe(fe.Tag())
	}
	return out, true
}

func describe(tag string) string {
	switch tag {
	case "required":
		return "required"
	default:
		return "invalid"
	}
}
