package wordpress

// Rendered is WordPress's wrapper around an HTML fragment.
type Rendered struct {
	Rendered string `json:"rendered"`
}

type Post struct {
	ID            int       `json:"id"`
	Slug          string    `json:"slug"`
	Title         Rendered  `json:"title"`
	Content       Rendered  `json:"content"`
	Excerpt       Rendered  `json:"excerpt"`
	Date          string    `json:"date"`
	FeaturedMedia int       `json:"featured_media"`
	Embedded      *Embedded `json:"_embedded,omitempty"`
}

// Embedded holds the resources inlined by the _embed flag. Either list may be
// missing, and an entry the API failed to resolve decodes with empty fields.
type Embedded struct {
	Author        []Author `json:"author,omitempty"`
	FeaturedMedia []Media  `json:"wp:featuredmedia,omitempty"`
}

type Author struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	AvatarURLs map[string]string `json:"avatar_urls,omitempty"`
	Link       string            `json:"link"`
}

type Media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

type Page struct {
	ID      int      `json:"id"`
	Slug    string   `json:"slug"`
	Title   Rendered `json:"title"`
	Content Rendered `json:"content"`
}

type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Author returns the first resolved embedded author, or nil.
func (p *Post) Author() *Author {
	if p.Embedded == nil {
		return nil
	}
	for i := range p.Embedded.Author {
		if p.Embedded.Author[i].Name != "" {
			return &p.Embedded.Author[i]
		}
	}
	return nil
}

// FeaturedImage returns the first embedded media item with a source URL, or nil.
func (p *Post) FeaturedImage() *Media {
	if p.Embedded == nil {
		return nil
	}
	for i := range p.Embedded.FeaturedMedia {
		if p.Embedded.FeaturedMedia[i].SourceURL != "" {
			return &p.Embedded.FeaturedMedia[i]
		}
	}
	return nil
}

// Avatar returns the avatar URL for a size key such as "48" or "96", or ""
// when that size is not available.
func (a *Author) Avatar(size string) string {
	if a == nil {
		return ""
	}
	return a.AvatarURLs[size]
}
