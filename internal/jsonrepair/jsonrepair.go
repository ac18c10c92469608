// Package jsonrepair cleans up the almost-JSON that chat models tend to return
// (markdown fences, trailing commas, stray newlines, prose around the object)
// before decoding it.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	trailingBeforeClose = regexp.MustCompile(`,(\s*[}\]])`)
	closeCommaClose     = regexp.MustCompile(`([}\]]),\s*([}\]])`)
	commaBrace          = regexp.MustCompile(`,\s*}`)
	commaBracket        = regexp.MustCompile(`,\s*]`)

	whitespaceRun   = regexp.MustCompile(`\s+`)
	objectThenClose = regexp.MustCompile(`\},\s*\]`)
	quoteDoubleComm = regexp.MustCompile(`"\s*,\s*,`)
	doubleComma     = regexp.MustCompile(`,\s*,`)

	objectPattern = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ParseError is returned when no repair strategy produced valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StripFences removes a surrounding ```json ... ``` block and trims the result.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// RemoveTrailingCommas drops commas that directly precede a closing brace or bracket.
func RemoveTrailingCommas(s string) string {
	s = trailingBeforeClose.ReplaceAllString(s, "$1")
	s = closeCommaClose.ReplaceAllString(s, "$1$2")
	s = commaBrace.ReplaceAllString(s, "}")
	s = commaBracket.ReplaceAllString(s, "]")
	return s
}

// Aggressive flattens the text onto one line and removes doubled separators.
// It can alter string contents, so it is only tried after the gentle pass fails.
func Aggressive(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = objectThenClose.ReplaceAllString(s, "}]")
	s = quoteDoubleComm.ReplaceAllString(s, `",`)
	s = doubleComma.ReplaceAllString(s, ",")
	return s
}

// ExtractObject returns the span from the first '{' to the last '}', or "" when
// the text holds no object.
func ExtractObject(s string) string {
	return objectPattern.FindString(s)
}

// Decode unmarshals raw into v, retrying with progressively more invasive repairs.
// A field holding the wrong JSON type (a quoted number, say) is left at its zero
// value and the rest of v is kept.
func Decode(raw string, v interface{}) error {
	cleaned := RemoveTrailingCommas(StripFences(raw))

	err := json.Unmarshal([]byte(cleaned), v)
	if decoded(err) {
		return nil
	}

	if err = json.Unmarshal([]byte(Aggressive(cleaned)), v); decoded(err) {
		return nil
	}

	obj := ExtractObject(cleaned)
	if obj == "" {
		return &ParseError{Err: err}
	}
	obj = RemoveTrailingCommas(obj)
	if err = json.Unmarshal([]byte(obj), v); decoded(err) {
		return nil
	}
	if err = json.Unmarshal([]byte(Aggressive(obj)), v); decoded(err) {
		return nil
	}
	return &ParseError{Err: err}
}

// decoded reports whether Unmarshal got through the whole document. encoding/json
// keeps going after a type mismatch inside an object, so only a mismatch on the
// top-level value counts as a failure.
func decoded(err error) bool {
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr) && typeErr.Field != ""
}
