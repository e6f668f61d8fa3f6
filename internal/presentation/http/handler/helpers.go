package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetActorID extracts the authenticated actor ID from the Gin context
func GetActorID(c *gin.Context) *uuid.UUID {
	actorIDVal, exists := c.Get("actor_id")
	if !exists {
		return nil
	}
	actorID, ok := actorIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &actorID
}

// GetActorEmail extracts the authenticated actor email from the Gin context
func GetActorEmail(c *gin.Context) string {
	email, exists := c.Get("actor_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// parseRunDay parses an optional YYYY-MM-DD run day, defaulting to today.
func parseRunDay(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse("2006-01-02", raw)
}
