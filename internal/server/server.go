package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/TobiSchelling/trendboard/internal/metrics"
	"github.com/TobiSchelling/trendboard/internal/navigator"
	"github.com/TobiSchelling/trendboard/internal/news"
	"github.com/TobiSchelling/trendboard/internal/treemap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options tunes the dashboard.
type Options struct {
	Treemap         treemap.Options
	ArticleLimit    int
	SearchLimit     int
	FeedDays        int
	SessionCapacity int
	// Backend is shown in the footer.
	Backend string
}

func (o *Options) applyDefaults() {
	if o.Treemap == (treemap.Options{}) {
		o.Treemap = treemap.DefaultOptions()
	}
	if o.ArticleLimit <= 0 {
		o.ArticleLimit = navigator.DefaultArticleLimit
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = 20
	}
	if o.FeedDays <= 0 {
		o.FeedDays = 7
	}
	if o.SessionCapacity <= 0 {
		o.SessionCapacity = 1024
	}
}

// Server is the HTTP server for the dashboard.
type Server struct {
	store    news.Store
	opts     Options
	pages    map[string]*template.Template
	mux      *http.ServeMux
	sessions *sessionStore
}

// New creates a new Server.
func New(store news.Store, opts Options) (*Server, error) {
	opts.applyDefaults()

	funcMap := template.FuncMap{
		"markdown":       renderMarkdown,
		"formatDate":     news.FormatDateDisplay,
		"sentimentClass": news.SentimentClass,
		"score":          func(f float64) string { return fmt.Sprintf("%+.2f", f) },
		"timestamp": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("Jan 02, 2006 15:04")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page clones the base and brings its own "title" and "content".
	pageNames := []string{"dashboard.html", "search.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{
		store: store,
		opts:  opts,
		pages: pages,
		mux:   http.NewServeMux(),
	}
	s.sessions, err = newSessionStore(opts.SessionCapacity, func() *navigator.Navigator {
		return navigator.New(store, navigator.Options{ArticleLimit: opts.ArticleLimit})
	})
	if err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.handle("/", s.handleDashboard)
	s.handle("/select", s.handleSelect)
	s.handle("/topic", s.handleTopic)
	s.handle("/article", s.handleArticle)
	s.handle("/back", s.handleBack)
	s.handle("/search", s.handleSearch)
	s.handle("/feed.xml", s.handleFeed)
	s.handle("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) handle(route string, h http.HandlerFunc) {
	s.mux.Handle(route, metrics.InstrumentHandler(route, logRequests(h)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		logrus.Errorf("template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		logrus.Errorf("rendering template %s: %v", name, err)
	}
}

// logRequests logs one line per request. It reads the status from the
// recorder installed by metrics.InstrumentHandler.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		code := http.StatusOK
		if rec, ok := w.(*metrics.StatusRecorder); ok {
			code = rec.Code
		}
		logrus.WithFields(logrus.Fields{
			"status":   code,
			"duration": time.Since(start).Round(time.Microsecond),
		}).Infof("%s %s", r.Method, r.URL.Path)
	})
}

// Serve starts the HTTP server on the given port and shuts it down when ctx ends.
func Serve(ctx context.Context, store news.Store, opts Options, port int) error {
	srv, err := New(store, opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("server listening on http://%s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
