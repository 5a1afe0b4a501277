package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListComments returns comments on a post, oldest first.
func (a *API) ListComments(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := a.comments.ListByPost(post.ID, parseIntQuery(c, "page"), parseIntQuery(c, "per_page"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":    result.Comments,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"per_page":    result.PerPage,
	})
}

// CreateComment adds a comment to a post.
func (a *API) CreateComment(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var payload struct {
		Body string `json:"body"`
	}
	if !bindJSON(c, &payload, "invalid comment payload") {
		return
	}

	comment, err := a.comments.Create(post.ID, currentUserID(c), payload.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment removes a comment. Allowed for the comment author, the
// post owner and admins.
func (a *API) DeleteComment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := a.comments.Delete(id, currentUserID(c), isAdmin(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
