package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/middleware"
	"aplicas/internal/rut"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal validates as a number (min, gt, required).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = validate.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return rut.Valido(fl.Field().String())
	})

	// Report json/form names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds the JSON body and runs the validator tags. On
// failure it writes the response and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido"))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos"))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos"))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// paramInt parses a positive integer path parameter.
func paramInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New(name+" invalido"))
		return 0, false
	}
	return v, true
}

func actor(c *gin.Context) dto.Actor {
	if a := middleware.GetActor(c); a != nil {
		return *a
	}
	return dto.Actor{}
}

// responderError maps domain errors to their status; anything else is
// handed to the ErrorHandler middleware as a 500.
func responderError(c *gin.Context, err error) {
	status := 0
	switch {
	case errors.Is(err, apierror.ErrNoEncontrado):
		status = http.StatusNotFound
	case errors.Is(err, apierror.ErrConflicto):
		status = http.StatusConflict
	case errors.Is(err, apierror.ErrEstadoInvalido):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apierror.ErrProhibido):
		status = http.StatusForbidden
	case errors.Is(err, apierror.ErrInvalido):
		status = http.StatusBadRequest
	}
	if status == 0 {
		_ = c.Error(err)
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}
