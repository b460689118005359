package errors

// Kind is the machine-readable error identifier carried on the wire. The
// taxonomy is closed; callers branch on kinds for programmatic handling and
// surface messages to humans.
type Kind string

const (
	// KindDuplicateKey reports a registration-time name or URI collision.
	KindDuplicateKey Kind = "DuplicateKeyError"

	// KindInvalidSchema reports a structurally malformed schema descriptor
	// at registration time.
	KindInvalidSchema Kind = "InvalidSchemaError"

	// KindValidation reports input or arguments that fail schema
	// validation. The details carry the full list of violations.
	KindValidation Kind = "ValidationError"

	// KindToolNotFound reports a tool lookup miss.
	KindToolNotFound Kind = "ToolNotFoundError"

	// KindResourceNotFound reports a resource lookup miss.
	KindResourceNotFound Kind = "ResourceNotFoundError"

	// KindPromptNotFound reports a prompt lookup miss.
	KindPromptNotFound Kind = "PromptNotFoundError"

	// KindExecution reports a tool handler or prompt generator failure.
	KindExecution Kind = "ExecutionError"

	// KindResourceRead reports a resource reader failure.
	KindResourceRead Kind = "ResourceReadError"

	// KindServerNotInitialized reports an operation invoked before
	// initialize().
	KindServerNotInitialized Kind = "ServerNotInitializedError"

	// KindMethodNotFound reports an unknown wire method.
	KindMethodNotFound Kind = "MethodNotFoundError"

	// KindMalformedMessage reports a framing-level JSON parse failure.
	KindMalformedMessage Kind = "MalformedMessageError"

	// KindInitialization aggregates per-item registration failures during
	// initialize().
	KindInitialization Kind = "InitializationError"

	// KindInternal is the fallback for unexpected failures, including
	// recovered panics at the dispatch boundary.
	KindInternal Kind = "InternalError"
)

// KindInfo provides human-readable information about an error kind.
type KindInfo struct {
	Kind        Kind
	Description string
	Category    Category
	Severity    Severity
}

// kindRegistry maps kinds to their classification.
var kindRegistry = map[Kind]KindInfo{
	KindDuplicateKey:         {KindDuplicateKey, "Registration key already exists", CategoryValidation, SeverityError},
	KindInvalidSchema:        {KindInvalidSchema, "Schema descriptor is malformed", CategoryValidation, SeverityError},
	KindValidation:           {KindValidation, "Value fails schema validation", CategoryValidation, SeverityError},
	KindToolNotFound:         {KindToolNotFound, "Tool not found", CategoryNotFound, SeverityError},
	KindResourceNotFound:     {KindResourceNotFound, "Resource not found", CategoryNotFound, SeverityError},
	KindPromptNotFound:       {KindPromptNotFound, "Prompt not found", CategoryNotFound, SeverityError},
	KindExecution:            {KindExecution, "Handler failed", CategoryExecution, SeverityError},
	KindResourceRead:         {KindResourceRead, "Resource reader failed", CategoryExecution, SeverityError},
	KindServerNotInitialized: {KindServerNotInitialized, "Server not initialized", CategoryLifecycle, SeverityError},
	KindMethodNotFound:       {KindMethodNotFound, "Unknown wire method", CategoryProtocol, SeverityError},
	KindMalformedMessage:     {KindMalformedMessage, "Message is not valid JSON", CategoryProtocol, SeverityError},
	KindInitialization:       {KindInitialization, "Server initialization failed", CategoryLifecycle, SeverityCritical},
	KindInternal:             {KindInternal, "Unexpected internal failure", CategoryInternal, SeverityCritical},
}

// KindInfoFor returns the classification of a kind.
func KindInfoFor(kind Kind) (KindInfo, bool) {
	info, ok := kindRegistry[kind]
	return info, ok
}

// KindCategory returns the category of a kind, defaulting to internal for
// unknown kinds.
func KindCategory(kind Kind) Category {
	if info, ok := kindRegistry[kind]; ok {
		return info.Category
	}
	return CategoryInternal
}

// KindSeverity returns the severity of a kind, defaulting to error for
// unknown kinds.
func KindSeverity(kind Kind) Severity {
	if info, ok := kindRegistry[kind]; ok {
		return info.Severity
	}
	return SeverityError
}

// IsKnownKind reports whether kind belongs to the taxonomy.
func IsKnownKind(kind Kind) bool {
	_, ok := kindRegistry[kind]
	return ok
}

// Kinds returns every kind in the taxonomy.
func Kinds() []KindInfo {
	kinds := make([]KindInfo, 0, len(kindRegistry))
	for _, info := range kindRegistry {
		kinds = append(kinds, info)
	}
	return kinds
}
