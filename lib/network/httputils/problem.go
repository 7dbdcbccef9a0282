package httputils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"remitnet.io/remit/lib/errors"
)

// Problem is an RFC 7807 payload.
type Problem struct {
	// A URI reference that identifies the problem type.
	Type string `json:"type"`

	// A short, human-readable summary of the problem type.
	Title string `json:"title"`

	// The HTTP status code for this occurrence of the problem.
	Status int `json:"status,omitempty"`

	// A human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// A URI reference identifying the specific occurrence.
	Instance string `json:"instance,omitempty"`

	// Structured context of the failure, straight from the error.
	Data map[string]interface{} `json:"data,omitempty"`
}

func NewStatusProblem(status int) Problem {
	return Problem{Type: "about:blank", Status: status, Title: http.StatusText(status)}
}

// NewErrorProblem maps a coded error to a problem, keeping the code
// visible in the `type` member.
func NewErrorProblem(err error, status int) Problem {
	p := NewStatusProblem(status)
	p.Detail = err.Error()

	if e, ok := err.(*errors.Error); ok {
		p.Type = fmt.Sprintf("https://remitnet.io/problems/%d", e.Code)
		p.Detail = e.Message
		if len(e.Data) > 0 {
			p.Data = e.Data
		}
	}

	return p
}

func (p Problem) Serialize() ([]byte, error) {
	return json.Marshal(p)
}
