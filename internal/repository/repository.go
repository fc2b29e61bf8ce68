// Package repository adapts the content source to what page handlers need:
// sanitized, render-ready model records and sentinel errors.
package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/recipe-archive/internal/model"
)

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPageNotFound      = errors.New("page not found")
	ErrSourceUnavailable = errors.New("content source unavailable")
)

type PostRepository interface {
	// GetPostList returns the latest posts. The error is ErrSourceUnavailable
	// when the source could not be read; an empty list is not an error.
	GetPostList(ctx context.Context) ([]model.Post, error)
	ReadPost(ctx context.Context, slug string) (*model.Post, error)
	SearchPosts(ctx context.Context, term string) ([]model.Post, error)

	GetPages(ctx context.Context) []model.Page
	ReadPage(ctx context.Context, slug string) (*model.Page, error)

	GetCategories(ctx context.Context) []model.Category
}
