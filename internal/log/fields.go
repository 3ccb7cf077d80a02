package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldExternalID = "external_id"
	FieldEventType  = "event_type"
	FieldResource   = "resource"
	FieldResourceID = "resource_id"
	FieldMonthID    = "month_id"
)

const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentAuth     = "auth"
	ComponentUser     = "user"
	ComponentUserSync = "user_sync"
	ComponentFinance  = "finance"
	ComponentWebhook  = "webhook"
	ComponentSeed     = "seed"
)

const (
	OpCreate  = "create"
	OpList    = "list"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReorder = "reorder"
	OpCopy    = "copy"
	OpSync    = "sync"
	OpResolve = "resolve"
)
