package models

// Reason codes returned to clients alongside failures.
const (
	ReasonValidation           = "VALIDATION_ERROR"
	ReasonDuplicateEmail       = "DUPLICATE_EMAIL"
	ReasonMissingCredentials   = "MISSING_CREDENTIALS"
	ReasonEmailNotFound        = "EMAIL_NOT_FOUND"
	ReasonWrongPassword        = "WRONG_PASSWORD"
	ReasonInvalidCredentials   = "INVALID_CREDENTIALS"
	ReasonAccountDeactivated   = "ACCOUNT_DEACTIVATED"
	ReasonWrongCurrentPassword = "WRONG_CURRENT_PASSWORD"
	ReasonUnauthorized         = "UNAUTHORIZED"
	ReasonTokenExpired         = "TOKEN_EXPIRED"
	ReasonForbidden            = "FORBIDDEN"
	ReasonUserNotFound         = "USER_NOT_FOUND"
	ReasonRateLimited          = "RATE_LIMITED"
	ReasonInternal             = "INTERNAL_ERROR"
)

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// NewErrorResponse builds a failure body with the given message and reason code.
func NewErrorResponse(message, reason string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Reason: reason}
}

// MessageResponse is a bare acknowledgment.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    PublicUser `json:"user"`
}

// UserResponse wraps a single public user.
type UserResponse struct {
	Success bool       `json:"success"`
	User    PublicUser `json:"user"`
}

// UserListResponse is one page of the admin user listing.
type UserListResponse struct {
	Success bool         `json:"success"`
	Users   []PublicUser `json:"users"`
	Count   int          `json:"count"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Pages   int          `json:"pages"`
}
