package api

import (
	"github.com/rohanthewiz/rweb"
)

// APIResponse provides a consistent JSON response structure for all API endpoints.
// Success responses include data, error responses include an error message.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeSuccess sends a successful JSON response with data.
// Uses rweb's built-in WriteJSON which sets content-type automatically.
func writeSuccess(ctx rweb.Context, status int, data interface{}) error {
	ctx.SetStatus(status)
	return ctx.WriteJSON(APIResponse{Success: true, Data: data})
}

// writeError sends an error JSON response.
func writeError(ctx rweb.Context, status int, message string) error {
	ctx.SetStatus(status)
	return ctx.WriteJSON(APIResponse{Success: false, Error: message})
}

// writeErrorData sends an error JSON response that also carries data,
// e.g. the list of validation errors.
func writeErrorData(ctx rweb.Context, status int, message string, data interface{}) error {
	ctx.SetStatus(status)
	return ctx.WriteJSON(APIResponse{Success: false, Error: message, Data: data})
}

// detailResponse is the error shape of the challenge API.
type detailResponse struct {
	Detail string `json:"detail"`
}

// writeDetail answers in the challenge API's own format.
func writeDetail(ctx rweb.Context, status int, detail string) error {
	ctx.SetStatus(status)
	return ctx.WriteJSON(detailResponse{Detail: detail})
}
