package constant

import "time"

const (
	Empty = ""
)

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleClient = "client"

	// ContextGuest is the user recorded on rows written by anonymous callers.
	ContextGuest = "guest"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	DayFormat       = "2006-01-02"
	TimeOfDayFormat = "15:04"
	DateFormat      = time.RFC3339
	TimestampFormat = "2006-01-02 15:04:05"
)

// Query and path parameters.
const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"

	RequestParamID       = "id"
	RequestParamProvider = "provider_id"
	RequestParamService  = "service_id"
	RequestParamClient   = "client_id"
	RequestParamDate     = "date"
	RequestParamStatus   = "status"
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 10
)

// Audit columns shared by every table.
const (
	FieldCreatedAt  = "created_at"
	FieldCreatedBy  = "created_by"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelSchedulerScopeName  = "scheduler"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"

	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)
