package auth

import (
	"github.com/Ujjwols/tender-internproject/internal"
)

// RegisterDTO is the transport shape for account registration.
type RegisterDTO struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

func (d RegisterDTO) Validate() error {
	if d.Name == "" || d.Email == "" || d.EmployeeID == "" || d.Password == "" {
		return internal.NewValidationError(
			"name, email, employee_id and password are required",
			internal.ErrCodeMissingFields)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationError(
			"password must be at least 8 characters",
			internal.ErrCodeInvalidPassword)
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects missing credentials with 401 like every other login
// failure, so the response does not reveal which part was wrong.
func (d LoginDTO) Validate() error {
	if d.Email == "" || d.Password == "" {
		return internal.NewUnauthorizedError("please provide email and password", internal.ErrCodeMissingFields)
	}
	return nil
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (d ForgotPasswordDTO) Validate() error {
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeMissingFields)
	}
	return nil
}

type ResetPasswordDTO struct {
	Password string `json:"password"`
}

func (d ResetPasswordDTO) Validate() error {
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeMissingFields)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationError(
			"password must be at least 8 characters",
			internal.ErrCodeInvalidPassword)
	}
	return nil
}

type UpdatePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d UpdatePasswordDTO) Validate() error {
	if d.CurrentPassword == "" || d.NewPassword == "" {
		return internal.NewValidationError(
			"current_password and new_password are required",
			internal.ErrCodeMissingFields)
	}
	if len(d.NewPassword) < 8 {
		return internal.NewValidationError(
			"password must be at least 8 characters",
			internal.ErrCodeInvalidPassword)
	}
	return nil
}
