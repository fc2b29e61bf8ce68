package config

const (
	// Content source errors
	ErrGetPostsFmt   = "Failed to get posts: %v"
	ErrReadPostFmt   = "Failed to read post %q: %v"
	ErrSearchFmt     = "Failed to search posts: %v"
	ErrRenderPageFmt = "Failed to render page %q: %v"

	// User-facing messages
	MsgPostNotFound       = "Post not found"
	MsgPageNotFound       = "Page not found"
	MsgSourceUnavailable  = "Recipes are temporarily unavailable. Please try again shortly."
	MsgSomethingWentWrong = "Something went wrong"

	// Config errors
	ErrWriteConfigContentFmt = "Failed to write config content: %v"
)
