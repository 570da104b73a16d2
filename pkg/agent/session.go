package agent

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sipeed/picoweather/pkg/logger"
	"github.com/sipeed/picoweather/pkg/providers"
	"github.com/sipeed/picoweather/pkg/utils"
)

// Session owns one conversation history for the lifetime of the shell.
type Session struct {
	ID string

	mu        sync.Mutex
	processor *Processor
	history   []providers.Message
}

// NewSession seeds the history with the system prompt when one is given.
func NewSession(processor *Processor, systemPrompt string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		processor: processor,
	}
	if prompt := strings.TrimSpace(systemPrompt); prompt != "" {
		s.history = append(s.history, providers.Message{Role: "system", Content: prompt})
	}
	return s
}

// Turn appends the user input, advances the conversation according to the
// processor's follow-up policy and returns the last assistant text. On error
// the user message stays in the history, so the next turn still sees it.
func (s *Session) Turn(ctx context.Context, input string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, providers.Message{Role: "user", Content: input})

	logger.InfoCF("agent", "Turn started",
		map[string]any{
			"session_id":     s.ID,
			"history_length": len(s.history),
		})

	next, err := s.processor.Process(ctx, s.history)
	s.history = next
	if err != nil {
		return "", err
	}

	reply := LastAssistantText(s.history)
	logger.InfoCF("agent", "Turn completed",
		map[string]any{
			"session_id":     s.ID,
			"history_length": len(s.history),
			"reply_preview":  utils.Truncate(reply, 120),
		})
	return reply, nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []providers.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]providers.Message, len(s.history))
	copy(out, s.history)
	return out
}
