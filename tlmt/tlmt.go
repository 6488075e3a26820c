// Package tlmt defines the anonymous usage telemetry surface. Implementations
// must be safe to call from the run loop and cheap when disabled.
package tlmt

import "context"

// Event is one telemetry datapoint.
type Event struct {
	Name       string
	Properties map[string]any
}

// NewEvent builds an event with the given name and properties.
func NewEvent(name string, properties map[string]any) Event {
	if properties == nil {
		properties = map[string]any{}
	}

	return Event{Name: name, Properties: properties}
}

// Telemetry sends usage events somewhere, or nowhere.
type Telemetry interface {
	Send(ctx context.Context, event Event) error
	Close() error
}
