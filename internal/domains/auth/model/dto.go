package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

const dateLayout = "2006-01-02"

type RegisterRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	ProfilePicture *string `json:"profile_picture"`
	Address        *string `json:"address"`
	Bio            *string `json:"bio"`
	DateOfBirth    *string `json:"date_of_birth"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 150),
			validation.Match(usernameRe).Error("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("Enter a valid email address."),
			validation.Length(3, 254),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("This password is too short. It must contain at least 8 characters."),
		),
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
		validation.Field(&r.PhoneNumber, validation.Length(0, 15)),
		validation.Field(&r.DateOfBirth, validation.Date(dateLayout)),
	)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginUserInfo is the user block embedded in the login response.
type LoginUserInfo struct {
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

type LoginResponse struct {
	Refresh string        `json:"refresh"`
	Access  string        `json:"access"`
	User    LoginUserInfo `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Refresh, validation.Required.Error("refresh token is required")),
	)
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

func (r LogoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Refresh, validation.Required.Error("refresh token is required")),
	)
}

// UpdateProfileRequest carries only the fields the caller wants to
// change. Nil fields keep their stored value, so PUT and PATCH share
// the same handler.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	ProfilePicture *string `json:"profile_picture"`
	Address        *string `json:"address"`
	Bio            *string `json:"bio"`
	DateOfBirth    *string `json:"date_of_birth"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 150)),
		validation.Field(&r.LastName, validation.Length(0, 150)),
		validation.Field(&r.PhoneNumber, validation.Length(0, 15)),
		validation.Field(&r.DateOfBirth, validation.Date(dateLayout)),
	)
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required.Error("old password is required")),
		validation.Field(&r.NewPassword,
			validation.Required.Error("new password is required"),
			validation.Length(8, 128).Error("This password is too short. It must contain at least 8 characters."),
		),
		validation.Field(&r.ConfirmNewPassword,
			validation.Required.Error("password confirmation is required"),
			validation.In(r.NewPassword).Error("New passwords do not match."),
		),
	)
}
