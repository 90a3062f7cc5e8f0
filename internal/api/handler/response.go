package handler

import "github.com/labstack/echo/v4"

// apiResponse is the success envelope shared by all handlers. The matching
// error envelope is rendered by the central error handler.
type apiResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, apiResponse{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}
