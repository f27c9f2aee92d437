package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// CodeNoRows код ошибки, когда Single получил не ровно одну строку
const CodeNoRows = "PGRST116"

var (
	ErrInvalidBaseURL     = errors.New("invalid remote base url")
	ErrUnfilteredMutation = errors.New("update and delete require at least one filter")
	ErrDecode             = errors.New("decode remote response")
)

// Error ошибка, которую вернула удаленная сторона (любой ответ не 2xx)
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote error: status %d", e.Status)
}

// IsNoRows сообщает, что Single не нашел строку
func IsNoRows(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Code == CodeNoRows
}

// StatusOf возвращает HTTP статус удаленной ошибки или 0
func StatusOf(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

var messageKeys = []string{"message", "msg", "error_description", "detail", "title", "error"}

var codeKeys = []string{"error_code", "code", "error"}

func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		e.Message = strings.TrimSpace(string(bytes.TrimSpace(body)))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	for _, key := range messageKeys {
		if s := stringValue(payload[key]); s != "" {
			e.Message = s
			break
		}
	}
	for _, key := range codeKeys {
		if s := stringValue(payload[key]); s != "" && s != e.Message {
			e.Code = s
			break
		}
	}
	e.Details = stringValue(payload["details"])
	e.Hint = stringValue(payload["hint"])

	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	return e
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
