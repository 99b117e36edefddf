package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain words", "Intro to Spanish", "intro-to-spanish"},
		{"punctuation collapses", "Intro to Spanish!", "intro-to-spanish"},
		{"runs of separators", "French --  B1 (evening)", "french-b1-evening"},
		{"leading and trailing junk", "  ...German A2?  ", "german-a2"},
		{"digits kept", "Level 2 Grammar", "level-2-grammar"},
		{"unicode letters kept", "Español Básico", "español-básico"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.in))
		})
	}
}

func TestCourse_BeforeCreate(t *testing.T) {
	t.Run("derives slug from title", func(t *testing.T) {
		c := &Course{Title: "Intro to Spanish"}
		assert.NoError(t, c.BeforeCreate(nil))
		assert.Equal(t, "intro-to-spanish", c.Slug)
	})

	t.Run("keeps an explicit slug", func(t *testing.T) {
		c := &Course{Title: "Intro to Spanish", Slug: "spanish-101"}
		assert.NoError(t, c.BeforeCreate(nil))
		assert.Equal(t, "spanish-101", c.Slug)
	})
}

func TestUser_CanUsePlatform(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"unauthorized student", User{Role: RoleStudent}, false},
		{"authorized student", User{Role: RoleStudent, Authorized: true}, true},
		{"teacher", User{Role: RoleTeacher}, true},
		{"admin", User{Role: RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.CanUsePlatform())
		})
	}
}
