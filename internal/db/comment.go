package db

import "gorm.io/gorm"

// Comment 定义了文章评论模型
type Comment struct {
	gorm.Model
	Body   string `gorm:"size:2000;not null"`
	PostID uint   `gorm:"index;not null"`
	UserID uint   `gorm:"index;not null"`
	User   User
}
