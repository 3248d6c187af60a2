package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"stashdup/internal/dupe"
	"stashdup/internal/logging"
	"stashdup/internal/scanstore"
	"stashdup/internal/stash"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"score": func(v float64) string {
		return fmt.Sprintf("%.3f", v)
	},
	"timestamp": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04:05")
	},
	"elapsed": func(d time.Duration) string {
		return d.Round(time.Millisecond).String()
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

type indexView struct {
	RecordCount int
	FetchError  string
	Passes      []scanstore.PassSummary
}

// reportView decorates a stored report with display names. Titles are filled
// from a live scene fetch when the backend is reachable.
type reportView struct {
	Report *dupe.Report
	Titles map[string]string
}

func newReportView(report *dupe.Report) *reportView {
	return &reportView{
		Report: report,
		Titles: make(map[string]string),
	}
}

func (v *reportView) attachTitles(scenes []stash.Scene) {
	for _, scene := range scenes {
		if scene.Title != "" {
			v.Titles[scene.ID] = scene.Title
		}
	}
}

// Label returns a human name for a record id, falling back to the id itself.
func (v *reportView) Label(id string) string {
	if title, ok := v.Titles[id]; ok {
		return title
	}
	return id
}

type errorView struct {
	Status  int
	Message string
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, page, data); err != nil {
		s.log().Error("template render failed",
			logging.String("page", page),
			logging.Error(err))
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	s.render(w, status, "error", errorView{Status: status, Message: message})
}
