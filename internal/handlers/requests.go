package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// AddCompanyRequest is the add company form.
type AddCompanyRequest struct {
	Name    string `form:"name" validate:"required,max=120"`
	Website string `form:"website" validate:"omitempty,url"`
	// Owner is only honoured on the admin surface.
	Owner string `form:"owner"`
}

// AddLocationRequest is the add location form.
type AddLocationRequest struct {
	Company string `form:"company" validate:"required"`
	City    string `form:"city" validate:"required,max=120"`
	Country string `form:"country" validate:"required,len=2"`
}

// AddPromptRequest is the add prompt form.
type AddPromptRequest struct {
	Company string `form:"company" validate:"required"`
	Text    string `form:"text" validate:"required,min=3,max=500"`
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}
