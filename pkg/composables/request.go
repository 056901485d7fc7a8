package composables

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/acq-directory/pkg/middleware"
)

var (
	decoder  = form.NewDecoder()
	validate = validator.New()
)

// UseLogger returns the request-scoped logger, or a bare entry of
// logrus.StandardLogger when the request did not pass through WithLogger.
func UseLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := middleware.LoggerFrom(ctx); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// UseQuery decodes the query string of r into v.
func UseQuery[T any](v *T, r *http.Request) (*T, error) {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return v, errors.Wrap(err, "decode query")
	}
	return v, nil
}

// UseValidQuery decodes the query string of r into v and validates it.
// The returned map is keyed by field name.
func UseValidQuery[T any](v *T, r *http.Request) (*T, map[string]string, error) {
	if _, err := UseQuery(v, r); err != nil {
		return v, nil, err
	}
	return v, ValidationErrors(v), nil
}

// ValidationErrors runs struct validation on v. A nil map means v is valid.
func ValidationErrors(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out[strings.ToLower(fe.Field())] = msg
	}
	return out
}

// GetLastQueryParam returns the last occurrence of a query parameter.
func GetLastQueryParam(r *http.Request, key string) string {
	values := r.URL.Query()[key]
	if len(values) > 0 {
		return values[len(values)-1]
	}
	return ""
}
