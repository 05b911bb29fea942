package domain

import "fmt"

// MissingFieldError reports a required field absent from a remote record
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field `%s` is missing", e.Field)
}

// RemoteTransportError is a network or authentication failure calling the listing API
type RemoteTransportError struct {
	Op  string
	Err error
}

func (e *RemoteTransportError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *RemoteTransportError) Unwrap() error { return e.Err }

// RemoteParseError is a returned record that could not be converted
type RemoteParseError struct {
	Kind string
	Err  error
}

func (e *RemoteParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Kind, e.Err)
}

func (e *RemoteParseError) Unwrap() error { return e.Err }

// ConfigurationError is a required local resource that cannot be located or read
type ConfigurationError struct {
	Resource string
	Err      error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ChannelSendError is an internal event that could not be enqueued
type ChannelSendError struct {
	Channel string
	Reason  string
}

func (e *ChannelSendError) Error() string {
	return fmt.Sprintf("could not send to %s: %s", e.Channel, e.Reason)
}
