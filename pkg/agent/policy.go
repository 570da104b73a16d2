package agent

import (
	"fmt"
	"strings"

	"github.com/sipeed/picoweather/pkg/config"
)

// FollowUpPolicy decides what a turn does after tool results are appended.
type FollowUpPolicy int

const (
	// FollowUpOnce makes one more model call, with tools disabled, so the
	// model can phrase an answer from the tool results.
	FollowUpOnce FollowUpPolicy = iota
	// FollowUpNone ends the turn right after the tool results.
	FollowUpNone
)

func (p FollowUpPolicy) String() string {
	switch p {
	case FollowUpNone:
		return config.FollowUpNone
	case FollowUpOnce:
		return config.FollowUpOnce
	default:
		return fmt.Sprintf("FollowUpPolicy(%d)", int(p))
	}
}

// ParseFollowUpPolicy maps "none" or "once" to a policy. Empty selects
// FollowUpOnce.
func ParseFollowUpPolicy(s string) (FollowUpPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", config.FollowUpOnce:
		return FollowUpOnce, nil
	case config.FollowUpNone:
		return FollowUpNone, nil
	default:
		return FollowUpOnce, fmt.Errorf("unknown follow-up policy %q (want %q or %q)",
			s, config.FollowUpNone, config.FollowUpOnce)
	}
}
