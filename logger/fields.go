package logger

// Field names
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldErrorKind  = "error_kind"
	FieldOperation  = "operation"
	FieldOwnerID    = "owner_id"
	FieldEntityID   = "entity_id"
	FieldEvent      = "event"
)

// Components
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentGateway = "gateway"
	ComponentSummary = "summary"
	ComponentAMQP    = "amqp"
	ComponentCache   = "cache"
	ComponentAuth    = "auth"
)

// Operations
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpPurge    = "purge"
	OpList     = "list"
	OpSummary  = "summary"
	OpMigrate  = "migrate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
