package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"studyforge-backend/internal/services"
)

type textExtractor interface {
	Extract(contentType string, data []byte) (string, error)
}

type transcriptFetcher interface {
	Transcript(ctx context.Context, videoURL string) (*services.Transcript, error)
}

type UploadHandler struct {
	extractor   textExtractor
	transcripts transcriptFetcher
}

func NewUploadHandler(extractor textExtractor, transcripts transcriptFetcher) *UploadHandler {
	return &UploadHandler{extractor: extractor, transcripts: transcripts}
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Text     string `json:"text"`
	Filename string `json:"filename"`
	FileSize int64  `json:"fileSize"`
}

const noTextMessage = "No text content found in the file. Please ensure the file contains readable text."

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for multipart framing so oversized files still reach the size check.
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadBytes+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusBadRequest, errorResp("FILE_TOO_LARGE", "File size too large. Maximum size is 10MB.", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file uploaded", r))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !services.AllowedUploadType(contentType) {
		writeJSON(w, http.StatusBadRequest, errorResp("UNSUPPORTED_FORMAT", "File type not supported. Please upload PDF or PowerPoint files.", r))
		return
	}
	if header.Size > services.MaxUploadBytes {
		writeJSON(w, http.StatusBadRequest, errorResp("FILE_TOO_LARGE", "File size too large. Maximum size is 10MB.", r))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to process upload", r))
		return
	}

	log.Printf("Processing %s file: %s", contentType, header.Filename)
	text, err := h.extractor.Extract(contentType, data)
	if errors.Is(err, services.ErrNoText) {
		writeJSON(w, http.StatusBadRequest, errorResp("NO_TEXT", noTextMessage, r))
		return
	}
	if err != nil {
		log.Printf("File processing error for %s: %v", header.Filename, err)
		msg := fmt.Sprintf("Failed to process %s. Please ensure the file is not corrupted or password-protected.", header.Filename)
		writeJSON(w, http.StatusInternalServerError, errorResp("EXTRACTION_FAILED", msg, r))
		return
	}

	text = services.TruncateForProcessing(text)
	log.Printf("Extracted %d characters from %s", len(text), header.Filename)

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Text:     text,
		Filename: header.Filename,
		FileSize: header.Size,
	})
}

func (h *UploadHandler) YouTube(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "A YouTube URL is required", r))
		return
	}

	transcript, err := h.transcripts.Transcript(r.Context(), req.URL)
	switch {
	case errors.Is(err, services.ErrInvalidVideoURL):
		writeJSON(w, http.StatusBadRequest, errorResp("INVALID_URL", "Invalid YouTube URL", r))
		return
	case errors.Is(err, services.ErrNoTranscript):
		writeJSON(w, http.StatusBadRequest, errorResp("NO_TRANSCRIPT", "No transcript available for this video", r))
		return
	case err != nil:
		log.Printf("Transcript fetch failed for %s: %v", req.URL, err)
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Failed to fetch the video transcript", r))
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Text:     services.TruncateForProcessing(transcript.Text),
		Filename: transcript.Title,
		FileSize: int64(len(transcript.Text)),
	})
}
