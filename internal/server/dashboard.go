package server

import (
	"errors"
	"net/http"

	"github.com/TobiSchelling/trendboard/internal/metrics"
	"github.com/TobiSchelling/trendboard/internal/navigator"
	"github.com/TobiSchelling/trendboard/internal/treemap"
)

type dashboardPage struct {
	View    navigator.View
	Prev    string
	Next    string
	Treemap treemap.Map
	Flash   string
	Backend string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sess := s.sessions.get(w, r)
	if !sess.nav.View().Loaded {
		err := sess.nav.Select(r.Context(), "", "")
		s.recordNavigation("select", err)
		if err != nil && !errors.Is(err, navigator.ErrSuperseded) {
			sess.setFlash("Failed to load report: " + err.Error())
		}
	}

	page := dashboardPage{
		View:    sess.nav.View(),
		Flash:   sess.takeFlash(),
		Backend: s.opts.Backend,
	}
	page.Prev, page.Next = adjacentDates(page.View.Dates, page.View.Date)

	if page.View.Report != nil {
		page.Treemap = treemap.Layout(page.View.Report.Topics, s.opts.Treemap)
	}

	s.render(w, "dashboard.html", page)
}

// adjacentDates returns the older and newer neighbours of date in a
// newest-first list.
func adjacentDates(dates []string, date string) (prev, next string) {
	for i, d := range dates {
		if d != date {
			continue
		}
		if i+1 < len(dates) {
			prev = dates[i+1]
		}
		if i > 0 {
			next = dates[i-1]
		}
		return prev, next
	}
	return "", ""
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	q := r.URL.Query()
	date, category := q.Get("date"), q.Get("category")

	var err error
	if date == "" && category != "" {
		err = sess.nav.SelectCategory(r.Context(), category)
	} else {
		err = sess.nav.Select(r.Context(), date, category)
	}
	s.recordNavigation("select", err)
	s.flashError(sess, "Failed to load report: ", err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	err := sess.nav.SelectTopic(r.Context(), r.URL.Query().Get("name"))
	s.recordNavigation("topic", err)
	s.flashError(sess, "Failed to load articles: ", err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	err := sess.nav.SelectArticle(r.Context(), r.URL.Query().Get("id"))
	s.recordNavigation("article", err)
	s.flashError(sess, "Failed to load article: ", err)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.get(w, r)
	if sess.nav.Back() {
		s.recordNavigation("back", nil)
	} else {
		metrics.RecordNavigation("back", "noop")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) flashError(sess *session, prefix string, err error) {
	if err == nil || errors.Is(err, navigator.ErrSuperseded) {
		return
	}
	sess.setFlash(prefix + err.Error())
}

func (s *Server) recordNavigation(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, navigator.ErrSuperseded):
		outcome = "superseded"
	case errors.Is(err, navigator.ErrInvalidTransition),
		errors.Is(err, navigator.ErrUnknownTopic),
		errors.Is(err, navigator.ErrUnknownArticle):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.RecordNavigation(op, outcome)
}
