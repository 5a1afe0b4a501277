package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helpinghand/internal/service"
)

// Register creates a new account.
func (a *API) Register(c *gin.Context) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &payload, "invalid registration payload") {
		return
	}

	user, err := a.users.Register(service.RegisterInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and returns an access token.
func (a *API) Login(c *gin.Context) {
	var payload struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &payload, "invalid login payload") {
		return
	}

	token, user, err := a.users.Login(payload.Login, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the calling user's account.
func (a *API) Me(c *gin.Context) {
	user, err := a.users.Get(currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
