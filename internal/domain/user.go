package domain

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the stored account record. Password holds the bcrypt hash and is
// empty for accounts created through an external identity provider.
type User struct {
	ID        string
	Name      string
	UserName  string
	Email     string
	Password  string
	Phone     string
	PhotoURL  string
	Role      Role
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserDetails is the only shape of a user that leaves the service.
type UserDetails struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Details() UserDetails {
	return UserDetails{
		ID:        u.ID,
		Name:      u.Name,
		UserName:  u.UserName,
		Email:     u.Email,
		PhotoURL:  u.PhotoURL,
		Phone:     u.Phone,
		Role:      u.Role,
		IsDeleted: u.IsDeleted,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
