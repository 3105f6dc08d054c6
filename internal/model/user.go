package model

import (
	"time"
)

type UserRole string

const (
	Admin    UserRole = "admin"
	Intern   UserRole = "intern"
	External UserRole = "external"
)

// Valid 是否为已知角色
func (r UserRole) Valid() bool {
	switch r {
	case Admin, Intern, External:
		return true
	}
	return false
}

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// swagger:model User
type User struct {
	UUIDBase
	Name     string     `gorm:"size:100;not null" json:"name"`
	Email    string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password string     `gorm:"size:100" json:"-"`
	Role     UserRole   `gorm:"size:20;not null;default:'intern'" json:"role"`
	Provider *string    `gorm:"size:20" json:"provider"`
	Avatar   *string    `gorm:"size:512" json:"avatar"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
	Profile  *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary 嵌入到提交、评价中的精简用户信息
// swagger:model UserSummary
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (UserSummary) TableName() string {
	return "users"
}
