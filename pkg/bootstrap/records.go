package bootstrap

import (
	"time"

	"github.com/clipdeck/clipdeck/pkg/models"
)

// The bundle uses the content server's field names.

type authorRecord struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Photo         *string               `json:"photo"`
	Description   *string               `json:"description"`
	ExternalLinks []models.ExternalLink `json:"externalLinks"`
}

func (r authorRecord) toModel() *models.Author {
	return &models.Author{
		ID:          r.ID,
		Name:        r.Name,
		Photo:       r.Photo,
		Description: r.Description,
		Links:       r.ExternalLinks,
	}
}

type genreRecord struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	IsHidden bool   `json:"isHidden"`
}

func (r genreRecord) toModel() *models.Genre {
	return &models.Genre{
		ID:       r.ID,
		Symbol:   r.Symbol,
		Name:     r.Name,
		IsHidden: r.IsHidden,
	}
}

type contentRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AuthorID    string    `json:"authorId"`
	GenreID     string    `json:"genreId"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	IsOffensive bool      `json:"isOffensive"`
	DateAdded   time.Time `json:"dateAdded"`
	Filename    string    `json:"filename"`
}

func (r contentRecord) toModel(contentType string) *models.Content {
	c := &models.Content{
		ID:          r.ID,
		ContentType: contentType,
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		IsOffensive: r.IsOffensive,
		DateAdded:   r.DateAdded,
	}
	if r.AuthorID != "" && contentType == models.ContentTypeSound {
		authorID := r.AuthorID
		c.AuthorID = &authorID
	}
	if r.GenreID != "" && contentType == models.ContentTypeSong {
		genreID := r.GenreID
		c.GenreID = &genreID
	}
	return c
}
