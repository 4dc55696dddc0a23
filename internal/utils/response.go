package utils

import "net/http"

// Level mirrors the flash categories the storefront UI renders.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Level   Level  `json:"level"`
	Data    any    `json:"data,omitempty"`
}

func WriteEnvelope(w http.ResponseWriter, code int, level Level, message string, data any) {
	WriteJSON(w, code, Envelope{
		Success: code < http.StatusBadRequest,
		Message: message,
		Level:   level,
		Data:    data,
	})
}

func OK(w http.ResponseWriter, message string, data any) {
	WriteEnvelope(w, http.StatusOK, LevelSuccess, message, data)
}

func Warn(w http.ResponseWriter, code int, message string) {
	WriteEnvelope(w, code, LevelWarning, message, nil)
}

func Fail(w http.ResponseWriter, code int, message string) {
	WriteEnvelope(w, code, LevelDanger, message, nil)
}
