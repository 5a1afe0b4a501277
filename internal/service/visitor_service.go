package service

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/helpinghand/internal/db"
)

// VisitorService records site visits and aggregates daily PV/UV snapshots.
type VisitorService struct {
	db *gorm.DB
}

// VisitorStats aggregates all-time visitor counters.
type VisitorStats struct {
	PageViews      uint64 `json:"page_views"`
	UniqueVisitors uint64 `json:"unique_visitors"`
	DaysTracked    int64  `json:"days_tracked"`
}

// NewVisitorService creates a VisitorService instance.
func NewVisitorService(gdb *gorm.DB) *VisitorService {
	return &VisitorService{db: gdb}
}

// Record registers one page view for the visitor. Unique visitors are
// deduplicated per UTC day via a conflict-ignoring insert.
func (s *VisitorService) Record(visitorID string, now time.Time) error {
	if visitorID == "" {
		return errors.New("invalid visitor id")
	}
	day := now.UTC().Truncate(24 * time.Hour)

	return s.db.Transaction(func(tx *gorm.DB) error {
		visitor := db.SiteDailyVisitor{Day: day, VisitorID: visitorID}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).Create(&visitor)
		if insert.Error != nil {
			return insert.Error
		}
		isNewVisitor := insert.RowsAffected == 1

		var snapshot db.SiteDailySnapshot
		result := tx.Where("day = ?", day).First(&snapshot)
		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			snapshot = db.SiteDailySnapshot{Day: day}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
		case result.Error != nil:
			return result.Error
		}

		snapshot.PageViews++
		if isNewVisitor {
			snapshot.UniqueVisitors++
		}

		return tx.Save(&snapshot).Error
	})
}

// Stats sums the daily snapshots.
func (s *VisitorService) Stats() (*VisitorStats, error) {
	stats := &VisitorStats{}

	row := s.db.Model(&db.SiteDailySnapshot{}).
		Select("COALESCE(SUM(page_views), 0), COALESCE(SUM(unique_visitors), 0), COUNT(*)").
		Row()
	if err := row.Scan(&stats.PageViews, &stats.UniqueVisitors, &stats.DaysTracked); err != nil {
		return nil, err
	}

	return stats, nil
}
