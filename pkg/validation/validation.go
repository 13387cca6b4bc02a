// Package validation registers the custom binding tags used by the handlers.
package validation

import (
	"fmt"

	"leltar/pkg/metadata"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register adds the "warehouse" tag to gin's validator engine. It must run
// before any request is bound.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	return v.RegisterValidation("warehouse", validateWarehouse)
}

func validateWarehouse(fl validator.FieldLevel) bool {
	_, err := metadata.NewWarehouse(fl.Field().String())
	return err == nil
}
