package server

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/trendboard/internal/news"
)

// Concurrent ReportsForDate calls while building the feed.
const feedFetchers = 4

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Category    string  `xml:"category"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dates, err := s.store.ListReportDates(ctx, s.opts.FeedDays)
	if err != nil {
		logrus.Errorf("feed: listing dates: %v", err)
		http.Error(w, "Failed to load reports", http.StatusBadGateway)
		return
	}

	perDate := make([][]news.DailyReport, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedFetchers)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			reports, err := s.store.ReportsForDate(gctx, date)
			if err != nil {
				return fmt.Errorf("reports for %s: %w", date, err)
			}
			perDate[i] = reports
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logrus.Errorf("feed: %v", err)
		http.Error(w, "Failed to load reports", http.StatusBadGateway)
		return
	}

	base := baseURL(r)
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       "trendboard daily reports",
			Link:        base + "/",
			Description: "Daily trending-topic reports per category",
		},
	}
	for _, reports := range perDate {
		for _, rep := range reports {
			feed.Channel.Items = append(feed.Channel.Items, feedItem(base, rep))
		}
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		logrus.Errorf("feed: encoding: %v", err)
	}
}

func feedItem(base string, rep news.DailyReport) rssItem {
	link := base + "/select?" + url.Values{"date": {rep.Date}, "category": {rep.Category}}.Encode()

	var desc strings.Builder
	desc.WriteString(rep.Summary)
	if len(rep.Topics) > 0 {
		names := make([]string, len(rep.Topics))
		for i, t := range rep.Topics {
			names[i] = fmt.Sprintf("%s (%d)", t.Name, t.Count)
		}
		if desc.Len() > 0 {
			desc.WriteString("\n\n")
		}
		desc.WriteString("Trending: " + strings.Join(names, ", "))
	}

	var pub string
	if d, err := time.Parse(news.DateLayout, rep.Date); err == nil {
		pub = d.Format(time.RFC1123Z)
	}

	return rssItem{
		Title:       fmt.Sprintf("%s report for %s", rep.Category, news.FormatDateDisplay(rep.Date)),
		Link:        link,
		Description: desc.String(),
		Category:    rep.Category,
		GUID:        rssGUID{Value: rep.Date + "/" + rep.Category},
		PubDate:     pub,
	}
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}
