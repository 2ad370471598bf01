package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// engine pairs a validator with the translator registered on it. Each
// engine needs its own translator: registering the default translations
// twice on one translator conflicts.
type engine struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

var (
	// ginEngine is the translator for Gin's binding validator, set by Setup.
	ginEngine *engine

	// local validates client-side forms before any network call. It reads
	// the same `binding` tags as Gin so one struct serves both sides.
	local = sync.OnceValue(func() *engine {
		v := govalidator.New()
		v.SetTagName("binding")
		return configure(v)
	})
)

// ValidationError is a local validation failure. It never reaches the
// network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message()
}

// Message returns the field messages in a stable order, suitable for an
// inline error region.
func (e *ValidationError) Message() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		ginEngine = configure(v)
	}
}

// Struct validates a form struct locally. It returns nil or a
// *ValidationError keyed by JSON field name.
func Struct(v interface{}) error {
	e := local()
	if err := e.validate.Struct(v); err != nil {
		return &ValidationError{Fields: translate(e, err)}
	}
	return nil
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	e := ginEngine
	if e == nil {
		e = local()
	}
	return translate(e, err)
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

func configure(v *govalidator.Validate) *engine {
	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Confirmation fields read better with the signup screen's wording.
	_ = v.RegisterTranslation("eqfield", trans, func(t ut.Translator) error {
		return t.Add("eqfield", "{0} must be equal to {1}", true)
	}, func(t ut.Translator, fe govalidator.FieldError) string {
		if strings.Contains(fe.Param(), "Password") {
			return "Passwords do not match."
		}
		msg, _ := t.T("eqfield", fe.Field(), fe.Param())
		return msg
	})

	return &engine{validate: v, trans: trans}
}

func translate(e *engine, err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(e.trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}
