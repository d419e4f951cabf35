package jms

import "fmt"

// DestinationKind distinguishes point-to-point queues from pub/sub topics.
type DestinationKind string

const (
	// QueueKind identifies a point-to-point destination.
	QueueKind DestinationKind = "queue"
	// TopicKind identifies a publish/subscribe destination.
	TopicKind DestinationKind = "topic"
)

// Destination names a broker destination. The physical name is the
// human-readable name an operator knows the destination by, independent
// of any internal representation.
type Destination struct {
	name string
	kind DestinationKind
}

// NewQueue constructs a queue destination with the given physical name.
func NewQueue(name string) *Destination {
	return &Destination{name: name, kind: QueueKind}
}

// NewTopic constructs a topic destination with the given physical name.
func NewTopic(name string) *Destination {
	return &Destination{name: name, kind: TopicKind}
}

// PhysicalName returns the operator-facing destination name.
func (d *Destination) PhysicalName() string { return d.name }

// Kind returns whether the destination is a queue or a topic.
func (d *Destination) Kind() DestinationKind { return d.kind }

// String renders the destination as "<kind>://<name>".
func (d *Destination) String() string {
	return fmt.Sprintf("%s://%s", d.kind, d.name)
}
