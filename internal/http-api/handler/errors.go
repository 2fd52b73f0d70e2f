package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// report json field names in validation errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

var notFoundErrors = []error{
	service.ErrUserNotFound,
	service.ErrCategoryNotFound,
	service.ErrGenreNotFound,
	service.ErrTitleNotFound,
	service.ErrReviewNotFound,
	service.ErrCommentNotFound,
}

// respondError renders err with the status its kind maps to. Unknown errors
// are attached to the context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, vErr.Fields)
		return
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrSignupConflict):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, policy.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, policy.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "given token not valid"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

// respondBindError renders a ShouldBindJSON failure as a field map.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, bindErrorFields(err))
}

func bindErrorFields(err error) map[string][]string {
	fields := make(map[string][]string)

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields[typeErr.Field] = append(fields[typeErr.Field], fmt.Sprintf("expected a value of type %s", typeErr.Type))
	case errors.As(err, &syntaxErr):
		fields[service.NonFieldErrors] = []string{"malformed JSON"}
	default:
		fields[service.NonFieldErrors] = []string{err.Error()}
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice", fmt.Sprint(fe.Value()))
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}

// authorize runs the policy check ahead of body binding so that callers
// without access get 401/403 rather than field errors. Services check again.
func authorize(c *gin.Context, action policy.Action, kind policy.Kind) bool {
	if err := policy.Allow(middleware.CurrentActor(c), action, policy.On(kind)); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// requireActor is the authorize counterpart for owned content, whose
// ownership is only known once the object is loaded.
func requireActor(c *gin.Context) bool {
	if middleware.CurrentActor(c) == nil {
		respondError(c, policy.ErrUnauthenticated)
		return false
	}
	return true
}
