package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldReferer       = "referer"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldPeriodKey     = "period_key"
	FieldPeriodStart   = "period_start"
	FieldPeriodEnd     = "period_end"
	FieldCurrency      = "currency"
	FieldNodeCount     = "node_count"
	FieldLinkCount     = "link_count"
	FieldRelease       = "release"
	FieldTemplate      = "template"
)

// Components defines standard component names
const (
	ComponentApp          = "app"
	ComponentHTTP         = "http"
	ComponentCashFlow     = "cashflow"
	ComponentPeriod       = "period"
	ComponentStatements   = "statements"
	ComponentReleaseNotes = "releasenotes"
	ComponentTrace        = "trace"
	ComponentTemplate     = "template"
	ComponentCLI          = "cli"
)

// Operations defines standard operation names
const (
	OpRead     = "read"
	OpBuild    = "build"
	OpResolve  = "resolve"
	OpFetch    = "fetch"
	OpValidate = "validate"
	OpParse    = "parse"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPeriod adds the reporting window fields
func (f LogFields) WithPeriod(key, start, end string) LogFields {
	f[FieldPeriodKey] = key
	f[FieldPeriodStart] = start
	f[FieldPeriodEnd] = end
	return f
}

// WithSankey adds graph size fields
func (f LogFields) WithSankey(nodes, links int) LogFields {
	f[FieldNodeCount] = nodes
	f[FieldLinkCount] = links
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	if referer != "" {
		f[FieldReferer] = referer
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
