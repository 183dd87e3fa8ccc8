package assertions

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/empoweryouth/apiprobe/packages/http"
)

// MaxBodyExcerpt bounds how much of a response body is quoted in failures.
const MaxBodyExcerpt = 200

// StatusError reports a response status other than the expected one.
type StatusError struct {
	Want int
	Got  int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("Expected %d, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("Expected %d, got %d, Response: %s", e.Want, e.Got, e.Body)
}

// ShapeError reports a response body that does not have the required structure.
type ShapeError struct {
	Subject  string
	Problems []string
}

func (e *ShapeError) Error() string {
	if e.Subject == "" {
		return strings.Join(e.Problems, "; ")
	}
	return e.Subject + ": " + strings.Join(e.Problems, "; ")
}

func ExpectStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	return &StatusError{Want: want, Got: resp.StatusCode, Body: Excerpt(resp.BodyString(), MaxBodyExcerpt)}
}

// ParseJSON returns the body as a gjson value, or a *ShapeError when the body
// is not valid JSON.
func ParseJSON(resp *http.Response) (gjson.Result, error) {
	if !gjson.ValidBytes(resp.Body) {
		return gjson.Result{}, &ShapeError{Problems: []string{"Invalid JSON response"}}
	}
	return gjson.ParseBytes(resp.Body), nil
}

// Decode unmarshals the body into v. Decode failures are *ShapeError.
func Decode(resp *http.Response, v any) error {
	if err := resp.Decode(v); err != nil {
		return &ShapeError{Problems: []string{"Invalid JSON response: " + err.Error()}}
	}
	return nil
}

// MissingKeys returns the keys absent from obj, in the order given.
func MissingKeys(obj gjson.Result, keys ...string) []string {
	var missing []string
	for _, k := range keys {
		if !obj.Get(gjson.Escape(k)).Exists() {
			missing = append(missing, k)
		}
	}
	return missing
}

// RequireKeys fails when obj is not an object or lacks any of keys.
func RequireKeys(subject string, obj gjson.Result, keys ...string) error {
	if !obj.IsObject() {
		return &ShapeError{Subject: subject, Problems: []string{"expected an object"}}
	}
	if missing := MissingKeys(obj, keys...); len(missing) > 0 {
		return &ShapeError{Subject: subject, Problems: []string{fmt.Sprintf("Missing fields: %v", missing)}}
	}
	return nil
}

// RequireEach fails when arr is not a non-empty array or any element lacks
// one of keys.
func RequireEach(subject string, arr gjson.Result, keys ...string) error {
	if !arr.IsArray() {
		return &ShapeError{Subject: subject, Problems: []string{"expected an array"}}
	}
	items := arr.Array()
	if len(items) == 0 {
		return &ShapeError{Subject: subject, Problems: []string{"expected at least one element"}}
	}
	var problems []string
	for i, item := range items {
		if missing := MissingKeys(item, keys...); len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("[%d] missing fields: %v", i, missing))
		}
	}
	if len(problems) > 0 {
		return &ShapeError{Subject: subject, Problems: problems}
	}
	return nil
}

// Excerpt shortens s to at most max bytes, marking the cut.
func Excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
