package model

import "time"

type User struct {
	ID             int64      `json:"id" db:"id"`
	Username       string     `json:"username" db:"username"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	PhoneNumber    *string    `json:"phone_number" db:"phone_number"`
	ProfilePicture *string    `json:"profile_picture" db:"profile_picture"`
	Address        *string    `json:"address" db:"address"`
	Bio            *string    `json:"bio" db:"bio"`
	DateOfBirth    *time.Time `json:"date_of_birth" db:"date_of_birth"`
	IsStaff        bool       `json:"-" db:"is_staff"`
	IsActive       bool       `json:"-" db:"is_active"`
	LastLoginAt    *time.Time `json:"-" db:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// UserResponse is the public profile shape. Username and email are
// read only after registration.
type UserResponse struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	ProfilePicture *string `json:"profile_picture"`
	Address        *string `json:"address"`
	Bio            *string `json:"bio"`
	DateOfBirth    *string `json:"date_of_birth"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PhoneNumber:    u.PhoneNumber,
		ProfilePicture: u.ProfilePicture,
		Address:        u.Address,
		Bio:            u.Bio,
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	return resp
}

// RefreshToken tracks an issued refresh token so logout can revoke it.
// The jti claim is the primary key.
type RefreshToken struct {
	JTI           string     `db:"jti"`
	UserID        int64      `db:"user_id"`
	Token         string     `db:"token"`
	IssuedAt      time.Time  `db:"issued_at"`
	ExpiresAt     time.Time  `db:"expires_at"`
	BlacklistedAt *time.Time `db:"blacklisted_at"`
}
