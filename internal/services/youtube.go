package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	urlpkg "net/url"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
)

var (
	ErrInvalidVideoURL = errors.New("invalid YouTube URL")
	ErrNoTranscript    = errors.New("no transcript available for this video")
)

// Transcript is the caption text of one video.
type Transcript struct {
	VideoID string
	Title   string
	Text    string
}

type YouTubeService struct {
	httpClient    *http.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
}

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func NewYouTubeService() *YouTubeService {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &YouTubeService{
		httpClient:    httpClient,
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{HTTPClient: httpClient},
	}
}

// Transcript resolves a video URL to its title and caption text.
func (s *YouTubeService) Transcript(ctx context.Context, videoURL string) (*Transcript, error) {
	videoID := ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, ErrInvalidVideoURL
	}

	text, err := s.GetTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return &Transcript{VideoID: videoID, Title: s.videoTitle(ctx, videoID), Text: text}, nil
}

// GetTranscript fetches the captions for a YouTube video, preferring English tracks
func (s *YouTubeService) GetTranscript(ctx context.Context, videoID string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
	if err != nil {
		// Fallback: request any available language
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			legacyTranscript, legacyErr := s.getTranscriptViaTimedText(ctx, videoID)
			if legacyErr == nil {
				return legacyTranscript, nil
			}
			log.Printf("Transcript lookup failed for %s: api=%v timedtext=%v", videoID, err, legacyErr)
			return "", ErrNoTranscript
		}
	}

	var fullText strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(html.UnescapeString(entry.Text))
		if text == "" {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString(" ")
	}

	cleaned := strings.TrimSpace(fullText.String())
	if cleaned == "" {
		return "", ErrNoTranscript
	}
	return cleaned, nil
}

func (s *YouTubeService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *YouTubeService) getTranscriptViaTimedText(ctx context.Context, videoID string) (string, error) {
	page, err := s.fetch(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube page: %w", err)
	}

	captionURL, err := extractCaptionURL(string(page))
	if err != nil {
		return "", err
	}

	captions, err := s.fetch(ctx, captionURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch captions: %w", err)
	}

	transcript, err := parseCaptionsXML(captions)
	if err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}
	return transcript, nil
}

var (
	captionTracks     = regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionTracksList = regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionBaseURL    = regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
	pageTitle         = regexp.MustCompile(`<title>(.*?) - YouTube</title>`)
)

func extractCaptionURL(pageHTML string) (string, error) {
	matches := captionTracks.FindStringSubmatch(pageHTML)
	if len(matches) < 2 {
		matches = captionTracksList.FindStringSubmatch(pageHTML)
		if len(matches) < 2 {
			return "", ErrNoTranscript
		}
	}

	urlMatches := captionBaseURL.FindStringSubmatch(matches[1])
	if len(urlMatches) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	u := strings.ReplaceAll(urlMatches[1], `\u0026`, "&")
	return strings.ReplaceAll(u, `\/`, "/"), nil
}

func parseCaptionsXML(data []byte) (string, error) {
	var tt timedTextXML
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", err
	}

	var parts []string
	for _, t := range tt.Texts {
		if text := strings.TrimSpace(html.UnescapeString(t.Text)); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoTranscript
	}
	return strings.Join(parts, " "), nil
}

// videoTitle asks the player API first and falls back to the watch page <title>.
func (s *YouTubeService) videoTitle(ctx context.Context, videoID string) string {
	if video, err := s.ytClient.GetVideoContext(ctx, videoID); err == nil && video.Title != "" {
		return video.Title
	}

	page, err := s.fetch(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err == nil {
		if m := pageTitle.FindSubmatch(page); len(m) > 1 {
			return html.UnescapeString(string(m[1]))
		}
	}
	return "youtube-" + videoID
}

var videoIDPattern = regexp.MustCompile(`(?:v=|\/v\/|youtu\.be\/|embed\/|shorts\/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID returns the 11-character id from the usual YouTube URL shapes, or "".
func ExtractVideoID(url string) string {
	parsed, err := urlpkg.Parse(strings.TrimSpace(url))
	if err == nil {
		host := strings.ToLower(parsed.Host)
		path := strings.Trim(parsed.Path, "/")

		// youtube.com/watch?v=VIDEO_ID
		if strings.Contains(host, "youtube.com") {
			if v := parsed.Query().Get("v"); len(v) == 11 {
				return v
			}

			parts := strings.Split(path, "/")
			if len(parts) >= 2 {
				switch parts[0] {
				case "shorts", "embed", "v":
					if len(parts[1]) == 11 {
						return parts[1]
					}
				}
			}
		}

		// youtu.be/VIDEO_ID
		if strings.Contains(host, "youtu.be") {
			if candidate := strings.Split(path, "/")[0]; len(candidate) == 11 {
				return candidate
			}
		}
	}

	if m := videoIDPattern.FindStringSubmatch(url); len(m) > 1 {
		return m[1]
	}
	return ""
}
