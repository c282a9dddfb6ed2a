// Package ui serves the browser interface: upload form, consolidation
// results, run history and the help page.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"consolidador/app"
	"consolidador/internal"
	"consolidador/internal/session"
	"consolidador/internal/upload"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

//go:embed help.md
var helpMarkdown []byte

// Config holds the web application configuration.
type Config struct {
	Port        string
	UploadDir   string
	MaxFileSize int64
	MaxFiles    int
	SessionTTL  time.Duration
}

// App is the chi-based web application.
type App struct {
	router    *chi.Mux
	config    Config
	service   *app.ConsolidationService
	results   *session.Store[*app.Result]
	storage   *upload.LocalFileStorage
	templates *template.Template
	helpHTML  template.HTML
	logger    *internal.Logger
}

// NewApp creates the web application and wires its routes.
func NewApp(config Config, service *app.ConsolidationService, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"join": func(items []string, sep string) string {
			return strings.Join(items, sep)
		},
		"pct": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f*100)
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		config:    config,
		service:   service,
		results:   session.NewStore[*app.Result](config.SessionTTL),
		storage:   upload.NewLocalFileStorageWithPath(config.UploadDir),
		templates: templates,
		helpHTML:  renderMarkdown(helpMarkdown),
		logger:    logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/consolidate", a.handleConsolidate)
	a.router.Get("/results/{id}", a.handleResults)
	a.router.Get("/download/{id}", a.handleDownload)
	a.router.Get("/jobs", a.handleJobs)
	a.router.Get("/ajuda", a.handleHelp)
}

// Router exposes the underlying handler for embedding in other servers.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Port
	a.logger.Info("[UI] Starting consolidation UI on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Close releases the app's background resources.
func (a *App) Close() {
	a.results.Close()
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("[UI] Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func renderMarkdown(src []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML(src, p, renderer))
}
