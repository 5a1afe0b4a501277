package db

import "time"

// SiteDailySnapshot 记录站点每日的 PV/UV 快照。
type SiteDailySnapshot struct {
	ID             uint      `gorm:"primaryKey"`
	Day            time.Time `gorm:"uniqueIndex"`
	PageViews      uint64    `gorm:"default:0"`
	UniqueVisitors uint64    `gorm:"default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定自定义表名。
func (SiteDailySnapshot) TableName() string {
	return "site_daily_snapshots"
}

// SiteDailyVisitor 记录每日访客，用于 UV 去重。
type SiteDailyVisitor struct {
	ID        uint      `gorm:"primaryKey"`
	Day       time.Time `gorm:"uniqueIndex:idx_site_day_visitor"`
	VisitorID string    `gorm:"size:64;uniqueIndex:idx_site_day_visitor"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (SiteDailyVisitor) TableName() string {
	return "site_daily_visitors"
}
