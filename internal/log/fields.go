package log

// Common field names for structured logging
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
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMonth      = "month"
	FieldEntryID    = "entry_id"
	FieldAmount     = "amount"
	FieldKind       = "kind"
	FieldCategory   = "category"
	FieldOwner      = "owner"
	FieldProvider   = "provider"
	FieldOutcome    = "outcome"
)

// Components
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentAdvice   = "advice"
	ComponentAMQP     = "amqp"
	ComponentCache    = "cache"
	ComponentBackend  = "backend"
	ComponentTemplate = "template"
	ComponentSecurity = "security"
)

// Operations
const (
	OpAppend   = "append"
	OpRemove   = "remove"
	OpList     = "list"
	OpAdvise   = "advise"
	OpRender   = "render"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields is a small builder for slog key/value pairs.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithMonth(month string) LogFields {
	f[FieldMonth] = month
	return f
}

// WithEntry adds the identifying fields of a ledger entry. Descriptions are
// left out on purpose since they are free text typed by the household.
func (f LogFields) WithEntry(id string, amount float64, kind, category, owner string) LogFields {
	f[FieldEntryID] = id
	f[FieldAmount] = amount
	f[FieldKind] = kind
	f[FieldCategory] = category
	f[FieldOwner] = owner
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice flattens the fields into slog's alternating key/value form.
func (f LogFields) ToSlice() []any {
	out := make([]any, 0, len(f)*2)
	for k, v := range f {
		out = append(out, k, v)
	}
	return out
}
