package handler

import "github.com/elevatecrm/backend/internal/interfaces/http/dto"

// APIResponse is the typed response envelope referenced by the OpenAPI
// annotations. Runtime responses are built by dto; this type only gives
// the generator a concrete data shape per endpoint.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the error envelope for OpenAPI annotations.
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse is the bare success envelope for endpoints that
// return no data.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// MessageData carries a plain informational message.
type MessageData struct {
	Message string `json:"message"`
}
