package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/helpinghand/internal/db"
)

var (
	ErrCardNotFound       = errors.New("card application not found")
	ErrCardNameRequired   = errors.New("applicant full name is required")
	ErrCardPhotoRequired  = errors.New("applicant photo is required")
	ErrCardAlreadyOpen    = errors.New("an application is already open for this user")
	ErrCardNotPending     = errors.New("card application is not pending")
	ErrCardReasonRequired = errors.New("a rejection reason is required")
)

// CardService handles the volunteer identity-card application workflow.
type CardService struct {
	db     *gorm.DB
	assets *AssetCleaner
}

// CardInput represents fields accepted when submitting an application.
type CardInput struct {
	FullName    string
	DateOfBirth string
	BloodGroup  string
	Address     string
	Phone       string
	PhotoURL    string
}

// CardListResult aggregates paginated applications.
type CardListResult struct {
	Applications []db.CardApplication
	Total        int64
	TotalPages   int
	Page         int
	PerPage      int
}

// NewCardService creates a CardService instance.
func NewCardService(gdb *gorm.DB, assets *AssetCleaner) *CardService {
	return &CardService{db: gdb, assets: assets}
}

// Submit files a new application. A user may have at most one pending
// application at a time.
func (s *CardService) Submit(userID uint, input CardInput) (*db.CardApplication, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, ErrCardNameRequired
	}
	photoURL := strings.TrimSpace(input.PhotoURL)
	if photoURL == "" {
		return nil, ErrCardPhotoRequired
	}

	var open int64
	if err := s.db.Model(&db.CardApplication{}).
		Where("user_id = ? AND status = ?", userID, db.CardStatusPending).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrCardAlreadyOpen
	}

	application := &db.CardApplication{
		UserID:      userID,
		FullName:    fullName,
		DateOfBirth: strings.TrimSpace(input.DateOfBirth),
		BloodGroup:  strings.TrimSpace(input.BloodGroup),
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		PhotoURL:    photoURL,
		Status:      db.CardStatusPending,
	}
	if err := s.db.Create(application).Error; err != nil {
		return nil, err
	}

	return application, nil
}

// Get fetches an application by id.
func (s *CardService) Get(id uint) (*db.CardApplication, error) {
	var application db.CardApplication
	if err := s.db.First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &application, nil
}

// GetByUser returns the user's most recent application.
func (s *CardService) GetByUser(userID uint) (*db.CardApplication, error) {
	var application db.CardApplication
	err := s.db.Where("user_id = ?", userID).Order("created_at desc").First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &application, nil
}

// List returns applications, optionally filtered by status, newest first.
func (s *CardService) List(status string, page, perPage int) (*CardListResult, error) {
	result := &CardListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 20),
	}

	query := s.db.Model(&db.CardApplication{})
	if status = strings.TrimSpace(status); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := query.Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Applications).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Approve marks a pending application approved, assigning a card number
// and issue date.
func (s *CardService) Approve(id uint, now time.Time) (*db.CardApplication, error) {
	application, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if application.Status != db.CardStatusPending {
		return nil, ErrCardNotPending
	}

	application.Status = db.CardStatusApproved
	application.CardNumber = fmt.Sprintf("HH-%d-%05d", now.Year(), application.ID)
	application.IssuedAt = &now

	if err := s.db.Save(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

// Reject marks a pending application rejected with a reason.
func (s *CardService) Reject(id uint, reason string) (*db.CardApplication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrCardReasonRequired
	}

	application, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if application.Status != db.CardStatusPending {
		return nil, ErrCardNotPending
	}

	application.Status = db.CardStatusRejected
	application.RejectReason = reason

	if err := s.db.Save(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

// Delete removes an application and its hosted photo. The photo deletion is
// best-effort and reported, never fatal.
func (s *CardService) Delete(ctx context.Context, id, actorID uint, admin bool) (*DeletionReport, error) {
	application, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !admin && application.UserID != actorID {
		return nil, ErrForbidden
	}

	report := &DeletionReport{}
	if application.PhotoURL != "" {
		report.Assets = append(report.Assets, s.assets.Delete(ctx, application.PhotoURL))
	}

	if err := s.db.Unscoped().Delete(&db.CardApplication{}, application.ID).Error; err != nil {
		return nil, err
	}
	report.CardsDeleted = 1

	return report, nil
}
