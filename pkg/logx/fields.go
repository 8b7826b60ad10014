package logx

const (
	FieldAction          = "action"
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldChatID          = "chat-id"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldEvent           = "event"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldMoney           = "money"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldSessionID       = "session-id"
	FieldStack           = "stack"
	FieldTaskType        = "task-type"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
