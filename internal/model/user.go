package model

import (
	"time"
)

type UserRole string

const (
	Steward UserRole = "steward"
	Guest   UserRole = "guest"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name                string     `gorm:"size:100;not null" json:"name"`
	Email               string     `gorm:"size:100;unique;not null" json:"email,omitempty"`
	Password            string     `gorm:"size:100;not null" json:"-"`
	Role                UserRole   `gorm:"size:20;default:'guest'" json:"role"`
	Disabled            bool       `gorm:"default:false" json:"disabled"`
	LiabilityAcceptedAt *time.Time `json:"liabilityAcceptedAt,omitempty"`
	LastLogin           *time.Time `json:"lastLogin,omitempty"`
	LastSeen            *time.Time `json:"lastSeen,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// NeedsLiabilityCheck 访客在提交巡查前需要完成免责声明确认
func (u *User) NeedsLiabilityCheck() bool {
	return u.Role == Guest && u.LiabilityAcceptedAt == nil
}
