// Package model defines the render-ready records handed to templates.
package model

import (
	"html/template"
	"time"

	"github.com/debemdeboas/recipe-archive/internal/config"
)

type PostID int

// WordPress post dates carry no zone and are in the site's local time.
const (
	SourceDateLayout  = "2006-01-02T15:04:05"
	DisplayDateLayout = "January 2, 2006"
)

type Author struct {
	ID         int
	Name       string
	Link       string
	AvatarURLs map[string]string
}

// Avatar returns the avatar URL for a size key such as "48" or "96", or "".
func (a *Author) Avatar(size string) string {
	if a == nil {
		return ""
	}
	return a.AvatarURLs[size]
}

// Post is a sanitized post. Title, Excerpt and Content are trusted HTML.
type Post struct {
	ID   PostID
	Slug string

	Title   template.HTML
	Excerpt template.HTML
	Content template.HTML

	// Plain-text title for <title> and alt attributes.
	TitleText string

	Date    time.Time
	RawDate string

	Author *Author

	FeaturedImage    string
	FeaturedImageAlt string

	// Hash of Content, used to cache highlighted HTML.
	ContentHash string
}

// DisplayDate formats the post date as "January 2, 2006", falling back to
// the date string WordPress sent when it could not be parsed.
func (p Post) DisplayDate() string {
	if p.Date.IsZero() {
		return p.RawDate
	}
	return p.Date.Format(DisplayDateLayout)
}

// ISODate is the machine-readable date for <time datetime>.
func (p Post) ISODate() string {
	if p.Date.IsZero() {
		return ""
	}
	return p.Date.Format("2006-01-02")
}

func (p Post) Path() string {
	return config.PostsUrlPath + p.Slug
}

type Page struct {
	ID        int
	Slug      string
	Title     template.HTML
	TitleText string
	Content   template.HTML
}

func (p Page) Path() string {
	return config.PagesUrlPath + p.Slug
}

type Category struct {
	ID    int
	Name  string
	Slug  string
	Count int
}
