package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TobiSchelling/trendboard/internal/news"
)

type searchPage struct {
	Query    string
	Searched bool
	Message  string
	Results  []news.SearchResult
	Backend  string
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	page := searchPage{
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		Backend: s.opts.Backend,
	}

	if page.Query != "" {
		if term, err := news.NormalizeSearchTerm(page.Query); errors.Is(err, news.ErrQueryTooShort) {
			page.Message = "Please enter at least 2 characters."
		} else {
			results, err := s.store.SearchSummaries(r.Context(), term, s.opts.SearchLimit)
			page.Searched = true
			switch {
			case err != nil:
				page.Message = "Search failed: " + err.Error()
			case len(results) == 0:
				page.Message = "No results found."
			}
			page.Results = results
		}
	}

	s.render(w, "search.html", page)
}
