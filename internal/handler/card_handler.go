package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/helpinghand/internal/service"
)

// SubmitCardApplication files an identity-card application for the caller.
func (a *API) SubmitCardApplication(c *gin.Context) {
	var payload struct {
		FullName    string `json:"full_name"`
		DateOfBirth string `json:"date_of_birth"`
		BloodGroup  string `json:"blood_group"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
		PhotoURL    string `json:"photo_url"`
	}
	if !bindJSON(c, &payload, "invalid application payload") {
		return
	}

	application, err := a.cards.Submit(currentUserID(c), service.CardInput{
		FullName:    payload.FullName,
		DateOfBirth: payload.DateOfBirth,
		BloodGroup:  payload.BloodGroup,
		Address:     payload.Address,
		Phone:       payload.Phone,
		PhotoURL:    payload.PhotoURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": application})
}

// GetMyCardApplication returns the caller's most recent application.
func (a *API) GetMyCardApplication(c *gin.Context) {
	application, err := a.cards.GetByUser(currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": application})
}

// ListCardApplications returns applications for review, optionally
// filtered by status. Admin only.
func (a *API) ListCardApplications(c *gin.Context) {
	result, err := a.cards.List(c.Query("status"), parseIntQuery(c, "page"), parseIntQuery(c, "per_page"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": result.Applications,
		"total":        result.Total,
		"total_pages":  result.TotalPages,
		"page":         result.Page,
		"per_page":     result.PerPage,
	})
}

// ApproveCardApplication approves a pending application. Admin only.
func (a *API) ApproveCardApplication(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	application, err := a.cards.Approve(id, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": application})
}

// RejectCardApplication rejects a pending application. Admin only.
func (a *API) RejectCardApplication(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	if !bindJSON(c, &payload, "invalid rejection payload") {
		return
	}

	application, err := a.cards.Reject(id, payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": application})
}

// DeleteCardApplication removes an application and its hosted photo.
func (a *API) DeleteCardApplication(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	report, err := a.cards.Delete(c.Request.Context(), id, currentUserID(c), isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
