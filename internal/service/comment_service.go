package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/helpinghand/internal/db"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentInvalid  = errors.New("comment body must be between 1 and 2000 characters")
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// CommentListResult aggregates paginated comments for a post.
type CommentListResult struct {
	Comments   []db.Comment
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create adds a comment to an existing post.
func (s *CommentService) Create(postID, userID uint, body string) (*db.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > 2000 {
		return nil, ErrCommentInvalid
	}

	var count int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	comment := &db.Comment{Body: body, PostID: postID, UserID: userID}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost returns comments on a post, oldest first.
func (s *CommentService) ListByPost(postID uint, page, perPage int) (*CommentListResult, error) {
	result := &CommentListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 20),
	}

	query := s.db.Model(&db.Comment{}).Where("post_id = ?", postID)
	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)

	offset := (result.Page - 1) * result.PerPage
	if err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Comments).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// Delete removes a comment. Allowed for the comment author, the owner of
// the post it sits on, and admins.
func (s *CommentService) Delete(id, actorID uint, admin bool) error {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if !admin && comment.UserID != actorID {
		var post db.Post
		if err := s.db.First(&post, comment.PostID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if post.UserID != actorID {
			return ErrForbidden
		}
	}

	return s.db.Unscoped().Delete(&db.Comment{}, comment.ID).Error
}
