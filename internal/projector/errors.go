package projector

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred while
// driving a device.
type ErrorType int

const (
	// ErrTypeNetwork indicates a transport-level error (host unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the device refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates an HTTP-level error (non-2xx status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (unexpected response shape)
	ErrTypeParse
	// ErrTypeUnknownCommand indicates a command name absent from the
	// vendor's catalog (a programming-contract violation)
	ErrTypeUnknownCommand
	// ErrTypeUnknownVendor indicates a vendor ID absent from the registry
	ErrTypeUnknownVendor
	// ErrTypeUnknownTarget indicates a source label no catalog command
	// can reach, directly or via cycling
	ErrTypeUnknownTarget
	// ErrTypeSourceExhausted indicates the bounded cycle-and-probe loop
	// never observed the requested source
	ErrTypeSourceExhausted
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeUnknownCommand:
		return "Unknown Command"
	case ErrTypeUnknownVendor:
		return "Unknown Vendor"
	case ErrTypeUnknownTarget:
		return "Unknown Target"
	case ErrTypeSourceExhausted:
		return "Source Not Reached"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred during device control.
type DeviceError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Address    string    // Device address (for context)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more
// specific error type.
func ClassifyNetworkError(err error, address string) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{
			Type:    ErrTypeTimeout,
			Message: "request timed out",
			Err:     err,
			Address: address,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
			Address: address,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &DeviceError{
			Type:    ErrTypeConnectionRefused,
			Message: "device refused connection",
			Err:     err,
			Address: address,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return ClassifyNetworkError(urlErr.Err, address)
	}

	return &DeviceError{
		Type:    ErrTypeNetwork,
		Message: "network error occurred",
		Err:     err,
		Address: address,
	}
}

// NewNetworkError creates a transport-level error with automatic classification
func NewNetworkError(message string, err error, address string) *DeviceError {
	classified := ClassifyNetworkError(err, address)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &DeviceError{
		Type:    ErrTypeNetwork,
		Message: message,
		Err:     err,
		Address: address,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewUnknownCommandError reports a command name absent from a catalog
func NewUnknownCommandError(name, vendorID string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeUnknownCommand,
		Message: fmt.Sprintf("command %q not in %s catalog", name, vendorID),
	}
}

// NewUnknownVendorError reports a vendor ID absent from the registry
func NewUnknownVendorError(id string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeUnknownVendor,
		Message: fmt.Sprintf("no vendor profile registered for %q", id),
	}
}

// NewUnknownTargetError reports a source label that no catalog command
// can select
func NewUnknownTargetError(label, vendorID string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeUnknownTarget,
		Message: fmt.Sprintf("source %q not reachable on %s", label, vendorID),
	}
}

// NewSourceExhaustedError reports a cycle loop that never observed the
// requested source within its press budget
func NewSourceExhaustedError(label string, presses int) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeSourceExhausted,
		Message: fmt.Sprintf("source %q not observed after %d cycle presses", label, presses),
	}
}

// IsNetworkError checks if an error is transport-level (including
// timeout, connection refused, and DNS failures)
func IsNetworkError(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeNetwork ||
			devErr.Type == ErrTypeTimeout ||
			devErr.Type == ErrTypeConnectionRefused ||
			devErr.Type == ErrTypeDNS
	}
	return false
}

// IsHTTPError checks if an error is an HTTP status error
func IsHTTPError(err error) bool {
	return hasType(err, ErrTypeHTTP)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	return hasType(err, ErrTypeParse)
}

// IsUnknownCommand checks if an error reports a missing catalog command
func IsUnknownCommand(err error) bool {
	return hasType(err, ErrTypeUnknownCommand)
}

// IsUnknownVendor checks if an error reports an unregistered vendor ID
func IsUnknownVendor(err error) bool {
	return hasType(err, ErrTypeUnknownVendor)
}

// IsUnknownTarget checks if an error reports an unreachable source label
func IsUnknownTarget(err error) bool {
	return hasType(err, ErrTypeUnknownTarget)
}

// IsSourceExhausted checks if an error reports an exhausted cycle loop.
// Callers may use this to opt into a raw cycle-press fallback.
func IsSourceExhausted(err error) bool {
	return hasType(err, ErrTypeSourceExhausted)
}

func hasType(err error, t ErrorType) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == t
	}
	return false
}

// ShortMessage returns a concise, user-friendly message for display in
// the control panel's status line.
func ShortMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "device refused connection"
	case ErrTypeDNS:
		return "cannot resolve device address"
	case ErrTypeNetwork:
		return "network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("device error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "unexpected device response"
	case ErrTypeSourceExhausted:
		return "source not reached - device may be cycling blind"
	default:
		return devErr.Message
	}
}
