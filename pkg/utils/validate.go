package utils

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates request inputs against their struct tags.
func ValidateStruct(ctx context.Context, s interface{}) error {
	return validate.StructCtx(ctx, s)
}
