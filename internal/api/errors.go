package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status    int
	Message   string
	Fields    map[string]string
	RequestID string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// FieldErrors returns the field-specific messages carried by err, or nil.
func FieldErrors(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return apiErr.Fields
	}
	return nil
}

type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

type fieldItem struct {
	Field   string `json:"field"`
	Path    string `json:"path"`
	Param   string `json:"param"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func (f fieldItem) name() string {
	for _, s := range []string{f.Field, f.Path, f.Param} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (f fieldItem) text() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Msg
}

func decodeError(resp *http.Response, requestID string) error {
	apiErr := &Error{Status: resp.StatusCode, RequestID: requestID}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorBody
	if len(data) > 0 && json.Unmarshal(data, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" && len(body.Error) > 0 {
			var s string
			if json.Unmarshal(body.Error, &s) == nil {
				apiErr.Message = s
			}
		}
		apiErr.Fields = parseFields(body.Errors)
	} else if text := strings.TrimSpace(string(data)); text != "" && len(text) < 200 {
		apiErr.Message = text
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// parseFields understands {"field": "msg"}, {"field": {"message": "msg"}} and
// [{"path": "field", "msg": "msg"}].
func parseFields(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	fields := make(map[string]string)

	var byName map[string]json.RawMessage
	if json.Unmarshal(raw, &byName) == nil {
		for name, v := range byName {
			var s string
			if json.Unmarshal(v, &s) == nil {
				fields[name] = s
				continue
			}
			var item fieldItem
			if json.Unmarshal(v, &item) == nil && item.text() != "" {
				fields[name] = item.text()
			}
		}
	} else {
		var list []fieldItem
		if json.Unmarshal(raw, &list) == nil {
			for _, item := range list {
				if item.name() != "" {
					fields[item.name()] = item.text()
				}
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
