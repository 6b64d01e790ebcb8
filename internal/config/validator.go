package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for directory path existence (basic check)
	_ = validate.RegisterValidation("dirpath", func(fl validator.FieldLevel) bool {
		dirPath := fl.Field().String()
		if dirPath == "" {
			return true // Optional field
		}
		info, err := os.Stat(dirPath)
		if os.IsNotExist(err) {
			return false
		}
		return err == nil && info.IsDir()
	})

	if err := validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return err
	}

	return nil
}

// formatValidationErrors converts validator errors to a readable message
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var messages []string
	for _, fieldError := range validationErrors {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation '%s' (value: '%v')",
			fieldError.Namespace(), fieldError.Tag(), fieldError.Value(),
		))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(messages, "; "))
}
