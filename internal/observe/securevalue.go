package observe

// VariableValue is a bound GraphQL variable as seen by the observer. It is a
// closed variant: a value is either plain or secure, decided at the boundary
// where variables are bound, so the sanitizer is a total type switch instead
// of a runtime cast.
type VariableValue interface {
	variableValue()
}

// PlainValue wraps an ordinary variable value.
type PlainValue struct {
	Value any
}

func (PlainValue) variableValue() {}

// SecureValue marks a variable value as sensitive. The raw value is only
// reachable through Reveal; formatting a SecureValue with %v or %s yields
// the fully elided form so it cannot leak through casual logging.
type SecureValue struct {
	value string
}

func (SecureValue) variableValue() {}

// Secure wraps a raw string as a SecureValue.
func Secure(value string) SecureValue {
	return SecureValue{value: value}
}

// Reveal returns the raw value.
func (s SecureValue) Reveal() string {
	return s.value
}

// elisionMarker replaces the hidden remainder of an elided value.
const elisionMarker = "****"

// Elide returns the redacted form of the value, retaining at most keep
// leading characters verbatim. A keep of zero or less redacts everything.
func (s SecureValue) Elide(keep int) string {
	if keep <= 0 {
		return elisionMarker
	}
	runes := []rune(s.value)
	if keep >= len(runes) {
		return s.value
	}
	return string(runes[:keep]) + elisionMarker
}

func (s SecureValue) String() string {
	return s.Elide(0)
}
