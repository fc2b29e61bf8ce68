package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/recipe-archive/internal/cache"
	"github.com/debemdeboas/recipe-archive/internal/config"
	"github.com/debemdeboas/recipe-archive/internal/httpcache"
	"github.com/debemdeboas/recipe-archive/internal/logger"
	"github.com/debemdeboas/recipe-archive/internal/render"
	"github.com/debemdeboas/recipe-archive/internal/repository"
	"github.com/debemdeboas/recipe-archive/internal/routes"
	"github.com/debemdeboas/recipe-archive/internal/sanitize"
	"github.com/debemdeboas/recipe-archive/internal/util"
	"github.com/debemdeboas/recipe-archive/internal/util/compression"
	"github.com/debemdeboas/recipe-archive/internal/wordpress"
)

//go:embed static/* templates/*
var content embed.FS

var (
	postRepository repository.PostRepository
	renderer       *render.Renderer

	mainLogger zerolog.Logger
)

const janitorInterval = 10 * time.Minute

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file loaded")
	}

	if err := config.LoadConfig("config.yaml"); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	cfg := config.AppConfig

	mainLogger = logger.New(cfg.Logging.Level)
	config.SetLogger(mainLogger.With().Str("component", "config").Logger())
	render.SetLogger(mainLogger.With().Str("component", "render").Logger())
	repository.SetLogger(mainLogger.With().Str("component", "repository").Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hashStaticContent()

	client, err := newWordPressClient(ctx, cfg)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Error creating WordPress client")
	}

	sanitizer := sanitize.WithClasses(cfg.Content.StripClasses...)
	postRepository = repository.NewWordPressPostRepository(client, sanitizer)
	renderer = render.NewRenderer(content, config.TemplatesLocalDir, config.TemplateLayout, cfg.Content.Minify)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           newHandler(mainLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	mainLogger.Info().
		Str("addr", srv.Addr).
		Str("source", client.BaseURL()).
		Strs("sanitize_rules", sanitizer.Names()).
		Msg("Starting server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mainLogger.Fatal().Err(err).Msg("Server stopped")
	}
}

// newWordPressClient builds the content client. With caching enabled, responses
// are reused through an httpcache.Transport whose expired entries are purged
// until ctx is done.
func newWordPressClient(ctx context.Context, cfg *config.Config) (*wordpress.Client, error) {
	wp := cfg.WordPress
	httpClient := &http.Client{Timeout: wp.Timeout}

	if wp.Cache.Enabled {
		compressor, err := compression.New(wp.Cache.Compression)
		if err != nil {
			return nil, err
		}
		transport := httpcache.NewTransport(nil, compressor)
		transport.FetchTimeout = wp.Timeout
		go transport.RunJanitor(ctx, janitorInterval)
		httpClient.Transport = transport
	}

	return wordpress.NewClient(wp.BaseURL,
		wordpress.WithHTTPClient(httpClient),
		wordpress.WithPerPage(wp.PerPage),
		wordpress.WithUserAgent(wp.UserAgent),
		wordpress.WithRevalidation(wp.Revalidate, wp.SearchRevalidate),
	), nil
}

// Calculate the hash of static content
func hashStaticContent() {
	static, _ := fs.Sub(content, config.StaticLocalDir)
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash(data))
		return nil
	})
}

func newMux() *http.ServeMux {
	static, _ := fs.Sub(content, config.StaticLocalDir)

	mux := http.NewServeMux()

	mux.HandleFunc("GET "+routes.RobotsPath, serveRobots)
	mux.HandleFunc("GET "+routes.HealthPath, serveHealth)
	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))

	mux.HandleFunc("GET "+routes.ThemeToggle, serveThemeToggle)
	mux.HandleFunc("GET "+routes.ThemeOppositeIcon, serveThemeOppositeIcon)
	mux.HandleFunc("POST "+routes.SyntaxThemeSet, serveSyntaxThemeSet)
	mux.HandleFunc("GET "+routes.SyntaxThemeGet, serveSyntaxThemeGet)

	mux.HandleFunc("GET "+routes.PostPath, servePost)
	mux.HandleFunc("GET "+routes.PagePath, servePage)
	mux.HandleFunc("GET "+routes.SearchPath, serveSearch)
	mux.HandleFunc("GET /{$}", serveIndex)
	mux.HandleFunc(routes.RootPath, serveNotFound)

	return mux
}

// newHandler wraps the mux with the request logger, request IDs, access
// logging, panic recovery and response headers, outermost first.
func newHandler(l zerolog.Logger) http.Handler {
	var h http.Handler = newMux()
	h = secureHeaders(h)
	h = cacheIt(h)
	h = recoverer(h)
	h = accessLog(h)
	h = requestID(h)
	h = requestLogger(l)(h)
	return h
}
