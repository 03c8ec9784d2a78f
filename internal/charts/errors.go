package charts

import "fmt"

// Configuration error codes
const (
	CodeInvalidResource    = "invalid-resource"
	CodeInvalidAggregation = "invalid-aggregation"
	CodeInvalidStatus      = "invalid-status"
	CodeInvalidChannel     = "invalid-channel"
)

// Date range error codes
const (
	CodeInvalidDateFormat = "invalid-date-format"
	CodeFromAfterTo       = "from-after-to"
	CodeRangeTooLong      = "range-too-long"
)

// ConfigurationError indicates an invalid resource/aggregation/filter
// combination. It is always raised before any network access.
type ConfigurationError struct {
	Code    string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Code, e.Message)
}

// NewConfigurationError creates a ConfigurationError with a formatted message
func NewConfigurationError(code, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// DateRangeError indicates an unparseable or out-of-bounds date range.
// Also raised before any network access.
type DateRangeError struct {
	Code    string
	Message string
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("date range error (%s): %s", e.Code, e.Message)
}

// NewDateRangeError creates a DateRangeError with a formatted message
func NewDateRangeError(code, format string, args ...interface{}) *DateRangeError {
	return &DateRangeError{Code: code, Message: fmt.Sprintf(format, args...)}
}
