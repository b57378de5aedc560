package types

import "fmt"

// CustomError pairs an HTTP status code with a typed message so the app
// error handler can shape the JSON error envelope from anywhere in the
// middleware chain.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
