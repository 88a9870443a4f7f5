package services

import (
	"context"
	"time"

	"groupchat/internal/observability"
)

const (
	EventUserRegistered    = "user.registered"
	EventGroupCreated      = "group.created"
	EventGroupMemberJoined = "group.member_joined"
	EventMessageSent       = "message.sent"
)

// DomainEvent is the envelope published for every successful mutation.
type DomainEvent struct {
	EventType  string `json:"event_type"`
	OccurredAt string `json:"occurred_at"`
	Payload    any    `json:"payload"`
}

// publish never fails the operation that triggered it.
func publish(ctx context.Context, events EventPublisher, eventType string, at time.Time, payload any) {
	observability.IncDomainEvent(eventType)
	if events == nil {
		return
	}
	event := DomainEvent{
		EventType:  eventType,
		OccurredAt: at.UTC().Format(time.RFC3339Nano),
		Payload:    payload,
	}
	if err := events.Publish(ctx, eventType, event); err != nil {
		observability.IncAMQPPublishError()
	}
}
