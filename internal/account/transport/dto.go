package transport

import (
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Username  string `json:"username"  validate:"required,min=3,max=30"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// GoogleSignInRequest echoes the signed-in account so the server can check
// it against the token.
type GoogleSignInRequest struct {
	UID         string `json:"uid"         validate:"required"`
	Email       string `json:"email"       validate:"omitempty,email"`
	DisplayName string `json:"displayName" validate:"max=200"`
	PhotoURL    string `json:"photoURL"    validate:"omitempty,url"`
}

type UpdateMeRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName"  validate:"omitempty,max=100"`
	Phone     *string `json:"phone"     validate:"omitempty,max=32"`
	Avatar    *string `json:"avatar"    validate:"omitempty,url"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type UserList struct {
	Users      []models.User   `json:"users"`
	Pagination util.Pagination `json:"pagination"`
}

// RoleView is the admin's view of a role change.
type RoleView struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}
