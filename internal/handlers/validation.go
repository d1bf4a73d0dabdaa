package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ajglobal/staffverify/internal/store"
	"github.com/ajglobal/staffverify/pkg/response"
	appValidator "github.com/ajglobal/staffverify/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response is automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, store.ErrInvalidInput.WithMessage("Invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, validationError(err))
		return false
	}

	return true
}

func validationError(err error) error {
	var failures appValidator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return store.ErrInvalidInput
	}

	invalid := store.ErrInvalidInput
	for field, message := range failures.Fields() {
		invalid = invalid.WithField(field, message)
	}
	return invalid
}
