package handler

import (
	"errors"
	"net/http"
	"reflect"

	"mercadito/internal/apierror"
	"mercadito/internal/domainerr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// parseID reads a UUID path parameter, answering 400 when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognised is attached to the context for ErrorHandler and answered 500.
func writeError(c *gin.Context, err error) {
	var (
		validation  *domainerr.ValidationError
		notFound    *domainerr.NotFoundError
		transition  *domainerr.InvalidTransitionError
		stock       *domainerr.InsufficientStockError
		concurrency *domainerr.ConcurrencyError
	)
	switch {
	case errors.As(err, &validation):
		if validation.Campo == "" {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(validation.Motivo))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, &apierror.ValidationError{
			Detail: validation.Error(),
			Fields: map[string]string{validation.Campo: validation.Motivo},
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(notFound.Error()))
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, apierror.NewWithCode(apierror.CodeTransicionInvalida, transition.Error()))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.NewWithCode(apierror.CodeStockInsuficiente, stock.Error()))
	case errors.As(err, &concurrency):
		c.JSON(http.StatusConflict, apierror.NewWithCode(apierror.CodeConcurrencia, concurrency.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
