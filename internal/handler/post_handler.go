package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helpinghand/internal/service"
)

// ListPosts returns published posts, newest first.
func (a *API) ListPosts(c *gin.Context) {
	author := parseIntQuery(c, "author")
	if author < 0 {
		respondError(c, http.StatusBadRequest, "invalid author")
		return
	}

	result, err := a.posts.List(service.PostFilter{
		Search:   c.Query("search"),
		AuthorID: uint(author),
		Page:     parseIntQuery(c, "page"),
		PerPage:  parseIntQuery(c, "per_page"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       result.Posts,
		"total":       result.Total,
		"total_pages": result.TotalPages,
		"page":        result.Page,
		"per_page":    result.PerPage,
	})
}

// GetPost returns one post by slug with its body rendered to HTML.
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": post,
		"html": service.RenderMarkdown(post.Body),
	})
}

// CreatePost creates a post owned by the calling user.
func (a *API) CreatePost(c *gin.Context) {
	var payload struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		CoverURL string `json:"cover_url"`
	}
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:    payload.Title,
		Body:     payload.Body,
		CoverURL: payload.CoverURL,
	}, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost applies changes to a post addressed by slug.
func (a *API) UpdatePost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var payload struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		CoverURL string `json:"cover_url"`
	}
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	updated, err := a.posts.Update(c.Request.Context(), post.ID, currentUserID(c), isAdmin(c), service.PostInput{
		Title:    payload.Title,
		Body:     payload.Body,
		CoverURL: payload.CoverURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": updated})
}

// DeletePost removes a post with its comments and cover image. The
// response carries the deletion report.
func (a *API) DeletePost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	report, err := a.posts.Delete(c.Request.Context(), post.ID, currentUserID(c), isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
