package splunkapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is returned when Splunk answers with a 4xx or 5xx status
type HTTPError struct {
	StatusCode int
	Reason     string
	Messages   []string
	Body       string
}

func (e *HTTPError) Error() string {
	detail := strings.Join(e.Messages, "\n")
	if detail == "" {
		detail = e.Body
	}

	msg := fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Reason)
	if detail != "" {
		msg += " -- " + detail
	}
	return msg
}

// IsUnauthorized reports whether the server rejected the credentials or token
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{
		StatusCode: status,
		Reason:     http.StatusText(status),
	}

	var payload struct {
		Messages []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range payload.Messages {
			if m.Text != "" {
				e.Messages = append(e.Messages, m.Text)
			}
		}
	}

	if len(e.Messages) == 0 {
		e.Body = strings.TrimSpace(string(body))
	}

	return e
}
