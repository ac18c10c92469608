package services

import (
	"context"
	"fmt"

	"studyforge-backend/internal/jsonrepair"
	"studyforge-backend/internal/llm"
)

// completeJSON sends one prompt and decodes the repaired reply into v. The
// raw reply is returned for keyword scoring.
func completeJSON(ctx context.Context, c llm.Completer, req llm.Request, v interface{}) (string, error) {
	if c == nil {
		return "", llm.ErrNotConfigured
	}

	resp, err := c.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	if err := jsonrepair.Decode(resp.Content, v); err != nil {
		return resp.Content, fmt.Errorf("decoding reply: %w", err)
	}
	return resp.Content, nil
}
