package db

import (
	"time"

	"gorm.io/gorm"
)

// CardApplication status values.
const (
	CardStatusPending  = "pending"
	CardStatusApproved = "approved"
	CardStatusRejected = "rejected"
)

// CardApplication 定义了义工证申请模型
type CardApplication struct {
	gorm.Model
	UserID       uint   `gorm:"index;not null"`
	FullName     string `gorm:"size:120;not null"`
	DateOfBirth  string `gorm:"size:10"`
	BloodGroup   string `gorm:"size:8"`
	Address      string `gorm:"size:300"`
	Phone        string `gorm:"size:32"`
	PhotoURL     string
	Status       string `gorm:"size:16;not null;default:pending;index"`
	CardNumber   string `gorm:"size:32"`
	RejectReason string `gorm:"size:300"`
	IssuedAt     *time.Time
}
