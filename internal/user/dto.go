package user

import (
	"github.com/Ujjwols/tender-internproject/internal"
)

// UpdateMeDTO is the self-service profile update payload. Password, role,
// permissions and the active flag are deliberately not representable here;
// password changes go through the dedicated update-password endpoint.
type UpdateMeDTO struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Department  *string `json:"department,omitempty"`
	Designation *string `json:"designation,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`

	// Password is decoded only so the attempt can be rejected explicitly
	// instead of being silently dropped.
	Password *string `json:"password,omitempty"`
}

func (d UpdateMeDTO) Validate() error {
	if d.Password != nil {
		return internal.NewValidationError(
			"this route is not for password updates, use /auth/update-password",
			internal.ErrCodeFieldForbidden)
	}
	if d.Email != nil && *d.Email == "" {
		return internal.NewValidationError("email cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// AdminUpdateUserDTO is the admin variant; it can additionally change the
// role, permission set and status flags.
type AdminUpdateUserDTO struct {
	Name        *string   `json:"name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Department  *string   `json:"department,omitempty"`
	Designation *string   `json:"designation,omitempty"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Role        *string   `json:"role,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	OTPEnabled  *bool     `json:"otp_enabled,omitempty"`
}

func (d AdminUpdateUserDTO) Validate() error {
	if d.Role != nil && !ValidRole(*d.Role) {
		return internal.NewValidationError("role must be admin or staff", internal.ErrCodeValidationFailed)
	}
	if d.Email != nil && *d.Email == "" {
		return internal.NewValidationError("email cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
