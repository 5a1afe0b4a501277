package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helpinghand/internal/service"
)

// GetUser returns a public profile.
func (a *API) GetUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	user, err := a.users.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"bio":        user.Bio,
		"avatar_url": user.AvatarURL,
		"joined_at":  user.CreatedAt,
	}})
}

// UpdateProfile applies profile changes to the calling user.
func (a *API) UpdateProfile(c *gin.Context) {
	var payload struct {
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if !bindJSON(c, &payload, "invalid profile payload") {
		return
	}

	user, err := a.users.UpdateProfile(c.Request.Context(), currentUserID(c), service.ProfileInput{
		Bio:       payload.Bio,
		AvatarURL: payload.AvatarURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes an account and everything it owns. Allowed for the
// account holder and admins; the response carries the deletion report.
func (a *API) DeleteUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	report, err := a.users.Delete(c.Request.Context(), id, currentUserID(c), isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
