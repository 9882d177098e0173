package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Wire / codec
	InvalidMessage Code = "invalid_message" // malformed field count or structure
	UnknownType    Code = "unknown_type"    // TYPE outside the closed enumeration
	InvalidField   Code = "invalid_field"   // non-numeric or negative identifier
	BadPayload     Code = "bad_payload"     // type-specific DATA does not parse
	MessageTooLong Code = "message_too_long"

	// Routing
	HopLimit Code = "hop_limit"

	// Services
	NotConfigured Code = "not_configured"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Is reports whether err carries the given code.
func Is(err error, c Code) bool { return Of(err) == c }
