// Package validation wraps go-playground/validator with the rules of the
// Kiruna data model and renders failures as per-field messages.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"kiruna/internal/model"
)

var validate *validator.Validate

type clockKey struct{}

// WithClock returns a context under which date rules treat clock() as the
// current time. Without it they use time.Now.
func WithClock(ctx context.Context, clock func() time.Time) context.Context {
	return context.WithValue(ctx, clockKey{}, clock)
}

func clockFrom(ctx context.Context) func() time.Time {
	if clock, ok := ctx.Value(clockKey{}).(func() time.Time); ok && clock != nil {
		return clock
	}
	return time.Now
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister("notblank", validators.NotBlank)
	if err := validate.RegisterValidationCtx("partialdate", isPastPartialDate); err != nil {
		panic(fmt.Sprintf("register partialdate: %v", err))
	}
	mustRegister("archscale", isArchitecturalScale)
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// isPastPartialDate accepts YYYY, YYYY-MM and YYYY-MM-DD dates that are not in the future.
func isPastPartialDate(ctx context.Context, fl validator.FieldLevel) bool {
	pd, err := model.ParsePartialDate(fl.Field().String())
	if err != nil {
		return false
	}
	return !pd.IsFuture(clockFrom(ctx)())
}

// isArchitecturalScale accepts "1:<n>"; empty values pass so the tag can be
// combined with the pairing rule checked by the caller.
func isArchitecturalScale(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	_, err := model.ParseArchitecturalScale(v)
	return err == nil
}

// Errors maps a field path (JSON names, e.g. "connections[0].document") to
// a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Struct validates s and returns Errors on failure.
func Struct(s any) error {
	return StructCtx(context.Background(), s)
}

// StructCtx is Struct with a context carrying the clock, see WithClock.
func StructCtx(ctx context.Context, s any) error {
	errs := Errors{}
	IntoCtx(ctx, errs, s)
	return errs.Err()
}

// Into validates s and merges its failures into errs.
func Into(errs Errors, s any) {
	IntoCtx(context.Background(), errs, s)
}

// IntoCtx is Into with a context carrying the clock, see WithClock.
func IntoCtx(ctx context.Context, errs Errors, s any) {
	collect(errs, validate.StructCtx(ctx, s))
}

// As extracts Errors from err.
func As(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

func collect(errs Errors, err error) {
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("_", err.Error())
		return
	}
	for _, fe := range verrs {
		errs.Add(fieldPath(fe), message(fe))
	}
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "unique":
		return "must not contain duplicates"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "partialdate":
		return "must be YYYY, YYYY-MM or YYYY-MM-DD and not in the future"
	case "archscale":
		return "must have the form 1:<number>"
	default:
		return "is invalid"
	}
}
