package models

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	Base
	UID             string `gorm:"uniqueIndex;not null"     json:"uid"`
	Email           string `gorm:"uniqueIndex;not null"     json:"email"`
	Username        string `gorm:"uniqueIndex;not null"     json:"username"`
	FirstName       string `gorm:"not null;default:''"      json:"firstName"`
	LastName        string `gorm:"not null;default:''"      json:"lastName"`
	Phone           string `gorm:"not null;default:''"      json:"phone,omitempty"`
	Avatar          string `gorm:"not null;default:''"      json:"avatar,omitempty"`
	Role            Role   `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	IsEmailVerified bool   `gorm:"not null;default:false"   json:"isEmailVerified"`
}

func (User) TableName() string {
	return "users"
}
