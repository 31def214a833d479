package mapper

// Span describes a location in the source document.
type Span struct {
	StartLine  int // 1-based
	StartCol   int // 1-based
	EndLine    int
	EndCol     int
	Confidence float64 // 0.0 - 1.0
	Reason     string  // short reason why this span was chosen
}

// ErrorMeta describes the field error being located.
type ErrorMeta struct {
	Kind     string // rule that failed: "type", "required", "additionalProperties", "minLength", ...
	Property string // property name when it differs from the last path segment
}
