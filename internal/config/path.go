package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	PostsUrlPath = "/post/"
	PagesUrlPath = "/page/"

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplateIndex  = "index.html"
	TemplatePost   = "post.html"
	TemplatePage   = "page.html"
	TemplateSearch = "search.html"
	TemplateError  = "error.html"
)
