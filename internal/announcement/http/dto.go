package http

import (
	"github.com/Hurtuk18/server-announcements-be/internal/announcement"
	"github.com/Hurtuk18/server-announcements-be/internal/pkg/datefmt"
)

// AnnouncementResponse is the list-item shape: no content body.
type AnnouncementResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	PublicationDate string   `json:"publicationDate"`
	LastUpdate      string   `json:"lastUpdate"`
	Categories      []string `json:"categories"`
}

// AnnouncementFullResponse adds the content body to the list-item shape.
type AnnouncementFullResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	PublicationDate string   `json:"publicationDate"`
	LastUpdate      string   `json:"lastUpdate"`
	Categories      []string `json:"categories"`
}

// ListResponse wraps the full result set with its total count.
type ListResponse struct {
	Items []AnnouncementResponse `json:"items"`
	Total int                    `json:"total"`
}

func NewListItemResponse(a *announcement.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:              a.ID,
		Title:           a.Title,
		PublicationDate: datefmt.Format(a.PublicationDate),
		LastUpdate:      datefmt.Format(a.LastUpdate),
		Categories:      categoryCodes(a.Categories),
	}
}

func NewFullResponse(a *announcement.Announcement) AnnouncementFullResponse {
	return AnnouncementFullResponse{
		ID:              a.ID,
		Title:           a.Title,
		Content:         a.Content,
		PublicationDate: datefmt.Format(a.PublicationDate),
		LastUpdate:      datefmt.Format(a.LastUpdate),
		Categories:      categoryCodes(a.Categories),
	}
}

// categoryCodes flattens the joined category records to their code
// list. Empty codes are dropped rather than rendered.
func categoryCodes(categories []announcement.Category) []string {
	codes := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.Code == "" {
			continue
		}
		codes = append(codes, c.Code)
	}
	return codes
}

type ListQuery struct {
	Search     string   `form:"search"`
	Categories []string `form:"categories"`
	Sort       string   `form:"sort" binding:"omitempty,oneof=title publicationDate lastUpdate"`
	Order      string   `form:"order" binding:"omitempty,oneof=asc desc"`
}

type CreateRequest struct {
	Title           string   `json:"title" binding:"required"`
	Content         string   `json:"content" binding:"required"`
	PublicationDate string   `json:"publicationDate" binding:"required"`
	Categories      []string `json:"categories" binding:"required,min=1"`
}

type UpdateRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Categories []string `json:"categories"`
}
