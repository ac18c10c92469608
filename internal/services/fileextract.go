package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimePPT  = "application/vnd.ms-powerpoint"

	MaxUploadBytes = 10 << 20
	// MaxExtractedChars caps text handed on for generation.
	MaxExtractedChars = 10000
	TruncationSuffix  = "\n\n[Content truncated for processing...]"
)

// ErrNoText means the document parsed but held no readable text.
var ErrNoText = errors.New("no readable text content found")

// AllowedUploadType reports whether contentType is an accepted document type.
func AllowedUploadType(contentType string) bool {
	switch contentType {
	case MimePDF, MimePPTX, MimePPT:
		return true
	}
	return false
}

type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// Extract pulls text out of an uploaded PDF or PowerPoint document.
func (s *FileExtractService) Extract(contentType string, data []byte) (string, error) {
	switch {
	case contentType == MimePDF:
		return s.extractPDF(data)
	case strings.Contains(contentType, "presentation") || strings.Contains(contentType, "powerpoint"):
		return s.extractPPTX(data)
	default:
		return "", fmt.Errorf("unsupported file type for text extraction: %s", contentType)
	}
}

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	inlineRun  = regexp.MustCompile(`[^\S\n]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

func (s *FileExtractService) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	extracted := 0
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			fmt.Fprintf(&b, "\n--- Page %d (processing error) ---\n", pageIndex)
			continue
		}
		text := strings.TrimSpace(spaceRun.ReplaceAllString(content, " "))
		if text == "" {
			continue
		}
		extracted++
		fmt.Fprintf(&b, "\n--- Page %d ---\n%s\n", pageIndex, text)
	}
	if extracted == 0 {
		return "", ErrNoText
	}

	text := newlineRun.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(inlineRun.ReplaceAllString(text, " ")), nil
}

var (
	slideFile   = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	textRun     = regexp.MustCompile(`(?s)<a:t(?:\s[^>]*)?>(.*?)</a:t>`)
	xmlEntities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
)

func (s *FileExtractService) extractPPTX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read PowerPoint file: %w", err)
	}

	type slide struct {
		n int
		f *zip.File
	}
	var slides []slide
	for _, f := range r.File {
		if m := slideFile.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{n: n, f: f})
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	var b strings.Builder
	processed := 0
	for _, sl := range slides {
		rc, err := sl.f.Open()
		if err != nil {
			continue
		}
		xmlContent, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		text := slideText(xmlContent)
		if text == "" {
			continue
		}
		processed++
		fmt.Fprintf(&b, "\n--- Slide %d ---\n%s\n", processed, text)
	}

	if processed == 0 {
		return "", ErrNoText
	}
	return strings.TrimSpace(b.String()), nil
}

func slideText(xmlContent []byte) string {
	var parts []string
	for _, m := range textRun.FindAllSubmatch(xmlContent, -1) {
		if text := strings.TrimSpace(xmlEntities.Replace(string(m[1]))); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(strings.Join(parts, " "), " "))
}

// TruncateForProcessing caps text at MaxExtractedChars characters.
func TruncateForProcessing(text string) string {
	if utf8.RuneCountInString(text) <= MaxExtractedChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxExtractedChars]) + TruncationSuffix
}
