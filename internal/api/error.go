package api

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
)

// Error is the normalized shape every failed call surfaces to UI code.
type Error struct {
	Message   string         `json:"message"`
	Status    int            `json:"status,omitempty"`
	Code      pkgerrors.Code `json:"code,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
	Path      string         `json:"path,omitempty"`
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// wireError tolerates the error bodies the portal may meet: the coded
// envelope `{"error":{"code","message"}}` as well as flat
// `{"message","timestamp","path"}` payloads.
type wireError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message   string `json:"message"`
	Detail    string `json:"detail"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// parseWireError pulls a display message and metadata out of an error body,
// falling back to the provided default when nothing usable is present.
func parseWireError(body []byte, fallback string) (message, timestamp, path string) {
	message = fallback

	var wire wireError
	if err := json.Unmarshal(body, &wire); err != nil {
		return message, "", ""
	}
	switch {
	case wire.Error != nil && wire.Error.Message != "":
		message = wire.Error.Message
	case wire.Message != "":
		message = wire.Message
	case wire.Detail != "":
		message = wire.Detail
	}
	return message, wire.Timestamp, wire.Path
}
