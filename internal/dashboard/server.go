package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"stashdup/internal/dupe"
	"stashdup/internal/logging"
	"stashdup/internal/scanstore"
	"stashdup/internal/stash"
)

// Backend is the slice of the Stash client the dashboard needs. Tests swap in
// a stub so handler behavior can be exercised without a live server.
type Backend interface {
	FetchScenes(ctx context.Context) ([]stash.Scene, error)
	MergeScenes(ctx context.Context, destination string, sources []string) (string, error)
}

// PassStore persists and recalls scan passes. *scanstore.Store satisfies it.
type PassStore interface {
	SaveReport(ctx context.Context, report *dupe.Report) error
	RecentPasses(ctx context.Context, limit int) ([]scanstore.PassSummary, error)
	GetReport(ctx context.Context, passID string) (*dupe.Report, error)
}

const recentPassLimit = 20

// Server owns the HTTP surface of the dashboard.
type Server struct {
	bind    string
	logger  *slog.Logger
	backend Backend
	store   PassStore
	opts    dupe.Options

	listener net.Listener
	server   *http.Server
}

// NewServer wires the dashboard against a Stash backend and a pass store.
func NewServer(bind string, backend Backend, store PassStore, opts dupe.Options, logger *slog.Logger) (*Server, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("dashboard: bind address is required")
	}
	if backend == nil {
		return nil, errors.New("dashboard: backend is required")
	}
	if store == nil {
		return nil, errors.New("dashboard: pass store is required")
	}

	srv := &Server{
		bind:    bind,
		logger:  logger,
		backend: backend,
		store:   store,
		opts:    opts,
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler exposes the route table so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/duplicates", s.handleDuplicates)
	mux.HandleFunc("/scan", s.handleScan)
	mux.HandleFunc("/merge", s.handleMerge)
	return mux
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("dashboard listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("dashboard server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("dashboard listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, draining in-flight requests briefly.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		s.renderError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view := indexView{}
	scenes, err := s.backend.FetchScenes(r.Context())
	if err != nil {
		s.log().Warn("scene count unavailable", logging.Error(err))
		view.FetchError = err.Error()
	} else {
		view.RecordCount = len(scenes)
	}

	passes, err := s.store.RecentPasses(r.Context(), recentPassLimit)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, err.Error())
		return
	}
	view.Passes = passes

	s.render(w, http.StatusOK, "index", view)
}

// handleScan runs a fresh pass against the live library, persists it, and
// sends the operator to the rendered report.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.renderError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	scenes, err := s.backend.FetchScenes(r.Context())
	if err != nil {
		s.renderError(w, http.StatusBadGateway, fmt.Sprintf("fetch scenes: %v", err))
		return
	}
	report, err := dupe.Scan(r.Context(), stash.Records(scenes), s.opts)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, fmt.Sprintf("scan pass: %v", err))
		return
	}
	if err := s.store.SaveReport(r.Context(), report); err != nil {
		s.renderError(w, http.StatusInternalServerError, fmt.Sprintf("save report: %v", err))
		return
	}

	s.log().Info("scan pass complete",
		logging.String("pass_id", report.PassID),
		logging.Int("records", report.RecordsScanned),
		logging.Int("clusters", report.ClustersFound),
		logging.Duration("elapsed", report.Elapsed))
	http.Redirect(w, r, "/duplicates?pass="+url.QueryEscape(report.PassID), http.StatusSeeOther)
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.renderError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	passID := strings.TrimSpace(r.URL.Query().Get("pass"))
	if passID == "" {
		passes, err := s.store.RecentPasses(r.Context(), 1)
		if err != nil {
			s.renderError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(passes) == 0 {
			s.renderError(w, http.StatusNotFound, "no scan passes recorded yet")
			return
		}
		passID = passes[0].PassID
	}

	report, err := s.store.GetReport(r.Context(), passID)
	if err != nil {
		if errors.Is(err, scanstore.ErrNotFound) {
			s.renderError(w, http.StatusNotFound, "scan pass not found: "+passID)
			return
		}
		s.renderError(w, http.StatusInternalServerError, err.Error())
		return
	}

	view := newReportView(report)
	// Titles are display-only sugar; a stale or unreachable backend still
	// leaves the report usable with bare record ids.
	if scenes, err := s.backend.FetchScenes(r.Context()); err == nil {
		view.attachTitles(scenes)
	} else {
		s.log().Warn("titles unavailable for report view", logging.Error(err))
	}

	s.render(w, http.StatusOK, "report", view)
}

// handleMerge relays a merge decision to Stash. The destination record
// absorbs the listed sources.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.renderError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "malformed form")
		return
	}

	destination := strings.TrimSpace(r.PostForm.Get("destination"))
	var sources []string
	for _, src := range r.PostForm["source"] {
		src = strings.TrimSpace(src)
		if src == "" || src == destination {
			continue
		}
		sources = append(sources, src)
	}
	if destination == "" || len(sources) == 0 {
		s.renderError(w, http.StatusBadRequest, "merge needs a destination and at least one source")
		return
	}

	merged, err := s.backend.MergeScenes(r.Context(), destination, sources)
	if err != nil {
		s.renderError(w, http.StatusBadGateway, fmt.Sprintf("merge failed: %v", err))
		return
	}
	s.log().Info("records merged",
		logging.String("destination", merged),
		logging.Int("sources", len(sources)))

	target := "/"
	if pass := strings.TrimSpace(r.PostForm.Get("pass")); pass != "" {
		target = "/duplicates?pass=" + url.QueryEscape(pass)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) log() *slog.Logger {
	return logging.NewComponentLogger(s.logger, "dashboard")
}
