package model

import (
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"
)

// Course is a published (or draft) class students can request enrollment in.
type Course struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Title            string    `json:"title" gorm:"size:200;not null"`
	Slug             string    `json:"slug" gorm:"uniqueIndex;size:220"`
	ShortDescription string    `json:"short_description" gorm:"size:300"`
	Description      string    `json:"description" gorm:"type:text"`
	Published        bool      `json:"published" gorm:"default:true;index"`
	CreatedAt        time.Time `json:"created_at"`
}

// BeforeCreate derives the slug from the title when none was supplied.
// Once set the slug never changes.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	return nil
}

// Slugify lowercases s and collapses runs of non-alphanumerics into single
// hyphens, e.g. "Intro to Spanish!" -> "intro-to-spanish".
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
