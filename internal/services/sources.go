package services

import (
	"net/url"
	"strings"
	"time"

	"studyforge-backend/internal/models"
)

// rawSource is a citation as the model writes it.
type rawSource struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	PublishedDate string  `json:"publishedDate"`
	Reliability   float64 `json:"reliability"`
	Domain        string  `json:"domain"`
	Snippet       string  `json:"snippet"`
	SourceType    string  `json:"sourceType"`
	Perspective   string  `json:"perspective"`
	Platform      string  `json:"platform"`
}

type sourceOptions struct {
	reliability float64
	// httpOnlyDomain derives the domain only for absolute http(s) URLs.
	httpOnlyDomain bool
	sourceType     string
	perspective    string
	dataType       string
	platform       string
	category       string
}

// normalizeSources fills defaults on model-written citations. The result is never nil.
func normalizeSources(raw []rawSource, opts sourceOptions, now time.Time) []models.Source {
	out := make([]models.Source, 0, len(raw))
	for _, s := range raw {
		src := models.Source{
			URL:           s.URL,
			Title:         s.Title,
			PublishedDate: parsePublished(s.PublishedDate, now),
			Reliability:   orDefaultNum(s.Reliability, opts.reliability),
			Snippet:       s.Snippet,
			DataType:      opts.dataType,
			Category:      opts.category,
		}

		if !opts.httpOnlyDomain || strings.HasPrefix(s.URL, "http") {
			src.Domain = hostname(s.URL)
		}
		if opts.sourceType != "" {
			src.SourceType = orDefault(s.SourceType, opts.sourceType)
		}
		if opts.perspective != "" {
			src.Perspective = orDefault(s.Perspective, opts.perspective)
		}
		if opts.platform != "" {
			src.Platform = orDefault(s.Platform, opts.platform)
		}
		out = append(out, src)
	}
	return out
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

var publishedLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parsePublished falls back to now for missing or unparseable dates.
func parsePublished(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}
