package notification

import (
	"fmt"

	"github.com/olahol/melody"
)

// Service pushes reservation events to connected dashboards.
type Service interface {
	SendMessage(message string) error
}

// MelodyService broadcasts over the websocket hub.
type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// MessageBuilder assembles a human-readable reservation event.
type MessageBuilder struct {
	action  string
	spaceID string
	detail  string
}

func NewMessageBuilder(action, spaceID, detail string) *MessageBuilder {
	return &MessageBuilder{
		action:  action,
		spaceID: spaceID,
		detail:  detail,
	}
}

func (b *MessageBuilder) Build() string {
	return fmt.Sprintf("🔔 Reservation %s for space %s: %s", b.action, b.spaceID, b.detail)
}
