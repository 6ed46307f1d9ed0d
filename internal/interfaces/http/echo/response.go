package echo

import "github.com/labstack/echo/v4"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Alert is the user facing text, set only where the client shows one.
	Alert string `json:"alert,omitempty"`
}

type apiResponse struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func writeError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, apiResponse{Error: &errorBody{Code: code, Message: message}})
}
