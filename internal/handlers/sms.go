package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"unisms/internal/middleware"
	"unisms/internal/models"
	"unisms/internal/service"
)

type selectorRequest struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type sendRequest struct {
	Message         string            `json:"message"`
	SelectedUserIDs []selectorRequest `json:"selectedUserIds"`
}

func (h HandlerSet) SendSMS(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	selectors := make([]service.Selector, 0, len(req.SelectedUserIDs))
	for _, sel := range req.SelectedUserIDs {
		selectors = append(selectors, service.Selector{ID: sel.ID, Type: models.PersonType(sel.Type)})
	}

	sentBy := claims.Email
	if sentBy == "" {
		sentBy = claims.UserID
	}

	result, err := h.services.Notifications.Send(c.Request.Context(), service.SendInput{
		Message:   req.Message,
		Selectors: selectors,
		SentBy:    sentBy,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "SMS envoyés",
		"successCount": result.SuccessCount,
		"totalCount":   result.TotalCount,
		"historyId":    result.HistoryID,
		"status":       result.Status,
	})
}

// SMSHistory accepts an optional ?limit=; the ledger clamps it.
func (h HandlerSet) SMSHistory(c *gin.Context) {
	limit := service.MaxHistory
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	entries, err := h.services.History.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
