package customers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain"
)

// ValidationError detalle por campo de un body inválido. errors.Is(err, domain.ErrInvalidInput) es true.
type ValidationError struct {
	Details []dto.ValidationDetail
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Field, d.Message))
	}
	return fmt.Sprintf("%s: %s", domain.ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	out := &ValidationError{Details: make([]dto.ValidationDetail, 0, len(verrs))}
	for _, fe := range verrs {
		out.Details = append(out.Details, dto.ValidationDetail{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "no es un email válido"
	case "min":
		return "no puede estar vacío"
	case "max":
		return "admite como máximo " + fe.Param() + " caracteres"
	default:
		return "valor inválido"
	}
}
