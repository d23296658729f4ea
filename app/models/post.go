package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.Created.IsZero() {
		return errors.New("created cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.Created.IsZero() {
		p.Created = time.Now().UTC()
	}
}

// Summary returns the id/title/content projection used by the JSON listing.
func (p *Post) Summary() PostSummary {
	return PostSummary{ID: p.ID, Title: p.Title, Content: p.Content}
}

// Summaries projects posts in their given order.
func Summaries(posts []*Post) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Summary())
	}
	return out
}
