package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/helpinghand/internal/db"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrTitleRequired = errors.New("post title is required")
	ErrTitleTooLong  = errors.New("post title exceeds 200 characters")
	ErrBodyRequired  = errors.New("post body is required")
	ErrSlugConflict  = errors.New("could not assign a unique slug")
	ErrForbidden     = errors.New("operation not permitted")
)

// slugAssignAttempts bounds how often a create or rename re-runs the
// disambiguation loop after the unique index rejects a slug that passed
// the pre-check.
const slugAssignAttempts = 4

// PostService wraps post related database operations.
type PostService struct {
	db     *gorm.DB
	assets *AssetCleaner
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title    string
	Body     string
	CoverURL string
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search   string
	AuthorID uint
	Page     int
	PerPage  int
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, assets *AssetCleaner) *PostService {
	return &PostService{db: gdb, assets: assets}
}

// slugTaken builds a uniqueness check over posts.slug, excluding the given
// post id so a rename against an unchanged base does not collide with
// itself. Zero means no exclusion.
func (s *PostService) slugTaken(excludeID uint) UniquenessCheck {
	return func(candidate string) (bool, error) {
		query := s.db.Model(&db.Post{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

// Create persists a post with a freshly generated slug. The pre-check and
// the insert are not atomic; the unique index is the authority, and a
// duplicate-key rejection re-runs generation against fresh state.
func (s *PostService) Create(input PostInput, userID uint) (*db.Post, error) {
	title, err := validatePostInput(input)
	if err != nil {
		return nil, err
	}

	post := &db.Post{
		Title:    title,
		Body:     input.Body,
		CoverURL: strings.TrimSpace(input.CoverURL),
		UserID:   userID,
	}

	for attempt := 0; attempt < slugAssignAttempts; attempt++ {
		slug, err := GenerateSlug(title, s.slugTaken(0))
		if err != nil {
			return nil, err
		}
		post.Slug = slug

		err = s.db.Create(post).Error
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}

	return nil, ErrSlugConflict
}

// Get fetches a post by id.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a post by its slug.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("User").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List returns posts matching the filter, newest first.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	query := s.db.Model(&db.Post{})
	if filter.AuthorID != 0 {
		query = query.Where("user_id = ?", filter.AuthorID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR body LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := query.Preload("User").
		Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Update applies changes to an existing post. The slug is regenerated only
// when the title changes; a replaced cover image orphans the previous asset,
// which is deleted best-effort.
func (s *PostService) Update(ctx context.Context, id, actorID uint, admin bool, input PostInput) (*db.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !admin && post.UserID != actorID {
		return nil, ErrForbidden
	}

	title, err := validatePostInput(input)
	if err != nil {
		return nil, err
	}

	titleChanged := title != post.Title
	previousCover := post.CoverURL

	post.Title = title
	post.Body = input.Body
	post.CoverURL = strings.TrimSpace(input.CoverURL)

	if !titleChanged {
		if err := s.db.Save(post).Error; err != nil {
			return nil, err
		}
	} else {
		saved := false
		for attempt := 0; attempt < slugAssignAttempts; attempt++ {
			slug, err := GenerateSlug(title, s.slugTaken(post.ID))
			if err != nil {
				return nil, err
			}
			post.Slug = slug

			err = s.db.Save(post).Error
			if err == nil {
				saved = true
				break
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, err
			}
		}
		if !saved {
			return nil, ErrSlugConflict
		}
	}

	if previousCover != "" && previousCover != post.CoverURL {
		s.assets.Delete(ctx, previousCover)
	}

	return post, nil
}

// Delete removes a post together with its comments and hosted cover image.
// Dependents go first: a crash mid-way leaves the parent present and the
// operation re-runnable, never orphaned children. Asset failures are
// reported, not raised. Deleting an already-deleted id is ErrPostNotFound.
func (s *PostService) Delete(ctx context.Context, id, actorID uint, admin bool) (*DeletionReport, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !admin && post.UserID != actorID {
		return nil, ErrForbidden
	}

	report := &DeletionReport{}

	res := s.db.Unscoped().Where("post_id = ?", post.ID).Delete(&db.Comment{})
	if res.Error != nil {
		return nil, res.Error
	}
	report.CommentsDeleted = res.RowsAffected

	if post.CoverURL != "" {
		report.Assets = append(report.Assets, s.assets.Delete(ctx, post.CoverURL))
	}

	if err := s.db.Unscoped().Delete(&db.Post{}, post.ID).Error; err != nil {
		return nil, err
	}
	report.PostsDeleted = 1

	return report, nil
}

func validatePostInput(input PostInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if len(title) > 200 {
		return "", ErrTitleTooLong
	}
	if strings.TrimSpace(input.Body) == "" {
		return "", ErrBodyRequired
	}
	return title, nil
}
