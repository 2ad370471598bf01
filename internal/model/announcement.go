package model

import (
	"strings"
	"time"
)

// AnnouncementCategory controls how prominently an announcement is shown.
type AnnouncementCategory string

const (
	CategoryUrgent  AnnouncementCategory = "urgent"
	CategoryWarning AnnouncementCategory = "warning"
	CategoryInfo    AnnouncementCategory = "info"
	CategoryNormal  AnnouncementCategory = "normal"
)

// NormalizeCategory lowercases c and maps unknown values to normal.
func NormalizeCategory(c AnnouncementCategory) AnnouncementCategory {
	switch v := AnnouncementCategory(strings.ToLower(string(c))); v {
	case CategoryUrgent, CategoryWarning, CategoryInfo:
		return v
	default:
		return CategoryNormal
	}
}

// Label is the upper-case badge text for the category.
func (c AnnouncementCategory) Label() string {
	return strings.ToUpper(string(NormalizeCategory(c)))
}

// Announcement is a portal-wide notice.
type Announcement struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Category  AnnouncementCategory `json:"category"`
	CreatedAt time.Time            `json:"createdAt"`
}

// AnnouncementRequest is the payload for creating or updating an announcement.
type AnnouncementRequest struct {
	Title    string               `json:"title" binding:"required,max=200"`
	Message  string               `json:"message" binding:"required,max=5000"`
	Category AnnouncementCategory `json:"category" binding:"omitempty,oneof=urgent warning info normal"`
}
