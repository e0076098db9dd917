package content

import "fmt"

const (
	CodeInvalidKey          = "invalid_key"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeContentParse        = "content_parse_error"
)

// Error is implemented by every failure the content layer reports to callers.
type Error interface {
	error
	Code() string
	Details() string
}

// InvalidKeyError reports an empty location or topic.
type InvalidKeyError struct {
	Field string
}

func (e *InvalidKeyError) Error() string   { return fmt.Sprintf("%s is required", e.Field) }
func (e *InvalidKeyError) Code() string    { return CodeInvalidKey }
func (e *InvalidKeyError) Details() string { return e.Error() }

// UpstreamUnavailableError wraps a failed or timed out AI call.
type UpstreamUnavailableError struct {
	Err error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("upstream AI service unavailable: %v", e.Err)
}
func (e *UpstreamUnavailableError) Unwrap() error   { return e.Err }
func (e *UpstreamUnavailableError) Code() string    { return CodeUpstreamUnavailable }
func (e *UpstreamUnavailableError) Details() string { return e.Err.Error() }

// ContentParseError reports an AI answer that does not match the expected shape.
// Raw keeps the unparsed text for diagnostics.
type ContentParseError struct {
	Raw string
	Err error
}

func (e *ContentParseError) Error() string {
	return fmt.Sprintf("unexpected AI response shape: %v", e.Err)
}
func (e *ContentParseError) Unwrap() error   { return e.Err }
func (e *ContentParseError) Code() string    { return CodeContentParse }
func (e *ContentParseError) Details() string { return e.Err.Error() }

var (
	_ Error = (*InvalidKeyError)(nil)
	_ Error = (*UpstreamUnavailableError)(nil)
	_ Error = (*ContentParseError)(nil)
)
