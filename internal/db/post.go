package db

import "gorm.io/gorm"

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title    string `gorm:"size:200;not null"`
	Slug     string `gorm:"uniqueIndex;size:190;not null"`
	Body     string
	CoverURL string
	UserID   uint `gorm:"index;not null"`
	User     User
}
