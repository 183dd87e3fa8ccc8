package capture

import (
	"github.com/tidwall/gjson"

	"github.com/empoweryouth/apiprobe/packages/core/session"
	"github.com/empoweryouth/apiprobe/packages/http"
)

// Setter stores a captured value in the session.
type Setter func(state *session.State, value string)

type Capture struct {
	Name  string
	Path  string // gjson path into the response body
	Store Setter
}

var (
	AuthToken     Setter = (*session.State).SetAuthToken
	UserID        Setter = (*session.State).SetUserID
	ChatSessionID Setter = (*session.State).SetChatSessionID
	JobID         Setter = (*session.State).SetJobID
)

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
}

func NewExtractor(resp *http.Response) *Extractor {
	return &Extractor{
		response: resp,
		bodyJSON: resp.JSON(),
	}
}

// Extract returns the string form of the value at path. Missing values,
// nulls and empty strings are reported as not found.
func (e *Extractor) Extract(path string) (string, bool) {
	if !e.bodyJSON.Exists() {
		return "", false
	}
	result := e.bodyJSON.Get(path)
	if !result.Exists() || result.Type == gjson.Null {
		return "", false
	}
	value := result.String()
	if value == "" {
		return "", false
	}
	return value, true
}

// ExtractAll applies every capture found in resp to state and returns the
// captured values by name. Captures whose path is absent leave state untouched.
func ExtractAll(resp *http.Response, state *session.State, captures ...Capture) map[string]string {
	extractor := NewExtractor(resp)
	results := make(map[string]string)

	for _, c := range captures {
		value, ok := extractor.Extract(c.Path)
		if !ok {
			continue
		}
		results[c.Name] = value
		if c.Store != nil {
			c.Store(state, value)
		}
	}

	return results
}
