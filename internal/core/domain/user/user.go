package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Username       string     `json:"username" db:"username"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	FullName       string     `json:"fullName" db:"full_name"`
	Email          string     `json:"email" db:"email"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Location       string     `json:"location" db:"location"`
	Bio            *string    `json:"bio,omitempty" db:"bio"`
	ProfilePicture *string    `json:"profilePicture,omitempty" db:"profile_picture"`
	ShowEmail      bool       `json:"showEmail" db:"show_email"`
	ShowPhone      bool       `json:"showPhone" db:"show_phone"`
	PublicProfile  bool       `json:"publicProfile" db:"public_profile"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// RegisterRequest represents the request to create a new account
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Password string  `json:"password" validate:"required,password"`
	FullName string  `json:"fullName" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty"`
	Location string  `json:"location" validate:"required"`
	Bio      *string `json:"bio,omitempty"`
}

// UpdateProfileRequest carries a partial profile update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName       *string `json:"fullName,omitempty" validate:"omitempty,min=1"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty"`
	Location       *string `json:"location,omitempty" validate:"omitempty,min=1"`
	Bio            *string `json:"bio,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	ShowEmail      *bool   `json:"showEmail,omitempty"`
	ShowPhone      *bool   `json:"showPhone,omitempty"`
	PublicProfile  *bool   `json:"publicProfile,omitempty"`
}

// Apply copies the non-nil fields of req onto u.
func (req *UpdateProfileRequest) Apply(u *User) {
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Location != nil {
		u.Location = *req.Location
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = req.ProfilePicture
	}
	if req.ShowEmail != nil {
		u.ShowEmail = *req.ShowEmail
	}
	if req.ShowPhone != nil {
		u.ShowPhone = *req.ShowPhone
	}
	if req.PublicProfile != nil {
		u.PublicProfile = *req.PublicProfile
	}
}
