package db

import "gorm.io/gorm"

// Role values stored on User.Role.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User 定义了用户模型
type User struct {
	gorm.Model
	Username  string `gorm:"uniqueIndex;size:64;not null"`
	Email     string `gorm:"uniqueIndex;size:190;not null"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"size:16;not null;default:member"`
	Bio       string
	AvatarURL string
}

// IsAdmin reports whether the user holds elevated privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
