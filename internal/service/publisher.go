package service

// EventPublisher pushes domain events to the message bus. Satisfied by
// *rabbitmq.Publisher; a nil publisher disables publishing.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}
