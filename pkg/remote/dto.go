package remote

import (
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
)

type updateEventDTO struct {
	ID        string    `json:"id"`
	ContentID string    `json:"contentId"`
	DateTime  time.Time `json:"dateTime"`
	MediaType string    `json:"mediaType"`
	EventType string    `json:"eventType"`
}

func (d updateEventDTO) toModel() *models.UpdateEvent {
	return &models.UpdateEvent{
		ID:        d.ID,
		ContentID: d.ContentID,
		DateTime:  d.DateTime,
		MediaType: d.MediaType,
		EventType: d.EventType,
	}
}

type soundDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AuthorID    string    `json:"authorId"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	IsOffensive bool      `json:"isOffensive"`
	DateAdded   time.Time `json:"dateAdded"`
}

func (d soundDTO) toModel() *models.Content {
	c := &models.Content{
		ID:           d.ID,
		ContentType:  models.ContentTypeSound,
		Title:        d.Title,
		Description:  d.Description,
		Duration:     d.Duration,
		IsFromServer: true,
		IsOffensive:  d.IsOffensive,
		DateAdded:    d.DateAdded,
	}
	if d.AuthorID != "" {
		authorID := d.AuthorID
		c.AuthorID = &authorID
	}
	return c
}

type songDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	GenreID     string    `json:"genreId"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	IsOffensive bool      `json:"isOffensive"`
	DateAdded   time.Time `json:"dateAdded"`
}

func (d songDTO) toModel() *models.Content {
	c := &models.Content{
		ID:           d.ID,
		ContentType:  models.ContentTypeSong,
		Title:        d.Title,
		Description:  d.Description,
		Duration:     d.Duration,
		IsFromServer: true,
		IsOffensive:  d.IsOffensive,
		DateAdded:    d.DateAdded,
	}
	if d.GenreID != "" {
		genreID := d.GenreID
		c.GenreID = &genreID
	}
	return c
}

type authorDTO struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Photo         *string               `json:"photo"`
	Description   *string               `json:"description"`
	ExternalLinks []models.ExternalLink `json:"externalLinks"`
}

func (d authorDTO) toModel() *models.Author {
	return &models.Author{
		ID:          d.ID,
		Name:        d.Name,
		Photo:       d.Photo,
		Description: d.Description,
		Links:       d.ExternalLinks,
	}
}

type genreDTO struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	IsHidden bool   `json:"isHidden"`
}

func (d genreDTO) toModel() *models.Genre {
	return &models.Genre{
		ID:       d.ID,
		Symbol:   d.Symbol,
		Name:     d.Name,
		IsHidden: d.IsHidden,
	}
}

type shareLogDTO struct {
	InstallID   string    `json:"installId"`
	ContentID   string    `json:"contentId"`
	ContentType string    `json:"contentType"`
	DateTime    time.Time `json:"dateTime"`
	Destination string    `json:"destination"`
}

func shareLogDTOs(logs []*models.ShareLog) []shareLogDTO {
	out := make([]shareLogDTO, len(logs))
	for i, l := range logs {
		out[i] = shareLogDTO{
			InstallID:   l.InstallID,
			ContentID:   l.ContentID,
			ContentType: l.ContentType,
			DateTime:    l.DateTime,
			Destination: l.Destination,
		}
	}
	return out
}
