package repository

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/debemdeboas/recipe-archive/internal/model"
	"github.com/debemdeboas/recipe-archive/internal/sanitize"
	"github.com/debemdeboas/recipe-archive/internal/util"
	"github.com/debemdeboas/recipe-archive/internal/wordpress"
)

type WordPressPostRepository struct { // implements PostRepository
	client    *wordpress.Client
	sanitizer *sanitize.Sanitizer
}

// NewWordPressPostRepository reads from client and cleans every HTML fragment
// with sanitizer. A nil sanitizer means sanitize.Default().
func NewWordPressPostRepository(client *wordpress.Client, sanitizer *sanitize.Sanitizer) *WordPressPostRepository {
	if sanitizer == nil {
		sanitizer = sanitize.Default()
	}
	return &WordPressPostRepository{
		client:    client,
		sanitizer: sanitizer,
	}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
}

func (r *WordPressPostRepository) GetPostList(ctx context.Context) ([]model.Post, error) {
	res := r.client.Posts(ctx)
	if !res.OK() {
		return []model.Post{}, unavailable(res.Err)
	}
	return r.convertPosts(res.Value), nil
}

func (r *WordPressPostRepository) ReadPost(ctx context.Context, slug string) (*model.Post, error) {
	res := r.client.PostBySlug(ctx, slug)
	switch res.Status {
	case wordpress.StatusOK:
		post := r.convertPost(res.Value)
		return &post, nil
	case wordpress.StatusNotFound:
		return nil, ErrPostNotFound
	default:
		return nil, unavailable(res.Err)
	}
}

func (r *WordPressPostRepository) SearchPosts(ctx context.Context, term string) ([]model.Post, error) {
	res := r.client.Search(ctx, term)
	if !res.OK() {
		return []model.Post{}, unavailable(res.Err)
	}
	return r.convertPosts(res.Value), nil
}

func (r *WordPressPostRepository) GetPages(ctx context.Context) []model.Page {
	src := r.client.GetPages(ctx)
	pages := make([]model.Page, 0, len(src))
	for i := range src {
		pages = append(pages, r.convertPage(&src[i]))
	}
	return pages
}

// ReadPage finds a page among the published pages by slug.
func (r *WordPressPostRepository) ReadPage(ctx context.Context, slug string) (*model.Page, error) {
	res := r.client.Pages(ctx)
	if !res.OK() {
		return nil, unavailable(res.Err)
	}
	for i := range res.Value {
		if res.Value[i].Slug == slug {
			page := r.convertPage(&res.Value[i])
			return &page, nil
		}
	}
	return nil, ErrPageNotFound
}

func (r *WordPressPostRepository) GetCategories(ctx context.Context) []model.Category {
	src := r.client.GetCategories(ctx)
	categories := make([]model.Category, 0, len(src))
	for _, c := range src {
		categories = append(categories, model.Category{
			ID:    c.ID,
			Name:  c.Name,
			Slug:  c.Slug,
			Count: c.Count,
		})
	}
	return categories
}

func (r *WordPressPostRepository) convertPosts(src []wordpress.Post) []model.Post {
	posts := make([]model.Post, 0, len(src))
	for i := range src {
		posts = append(posts, r.convertPost(&src[i]))
	}
	return posts
}

func (r *WordPressPostRepository) convertPost(p *wordpress.Post) model.Post {
	title := r.sanitizer.Clean(p.Title.Rendered)
	content := r.sanitizer.Clean(p.Content.Rendered)

	post := model.Post{
		ID:          model.PostID(p.ID),
		Slug:        p.Slug,
		Title:       template.HTML(title),
		Excerpt:     template.HTML(r.sanitizer.Clean(p.Excerpt.Rendered)),
		Content:     template.HTML(content),
		TitleText:   util.PlainText(title),
		RawDate:     p.Date,
		ContentHash: util.ContentHashString(content),
	}

	if date, err := time.Parse(model.SourceDateLayout, p.Date); err == nil {
		post.Date = date
	} else if p.Date != "" {
		repoLogger.Debug().Err(err).Str("slug", p.Slug).Msg("Unparseable post date, keeping raw value")
	}

	if a := p.Author(); a != nil {
		post.Author = &model.Author{
			ID:         a.ID,
			Name:       a.Name,
			Link:       a.Link,
			AvatarURLs: a.AvatarURLs,
		}
	}

	if m := p.FeaturedImage(); m != nil {
		post.FeaturedImage = m.SourceURL
		post.FeaturedImageAlt = m.AltText
		if post.FeaturedImageAlt == "" {
			post.FeaturedImageAlt = post.TitleText
		}
	}

	return post
}

func (r *WordPressPostRepository) convertPage(p *wordpress.Page) model.Page {
	title := r.sanitizer.Clean(p.Title.Rendered)
	return model.Page{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     template.HTML(title),
		TitleText: util.PlainText(title),
		Content:   template.HTML(r.sanitizer.Clean(p.Content.Rendered)),
	}
}
