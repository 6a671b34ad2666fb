package server

import "net/http"

const (
	// Standard colors
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m"
)

// MethodColors maps HTTP methods to terminal colors for route logging
var MethodColors = map[string]string{
	http.MethodGet:    Green,
	http.MethodPost:   Yellow,
	http.MethodPut:    Blue,
	http.MethodPatch:  Magenta,
	http.MethodDelete: Red,
}
