package enums

import "fmt"

// ReplyStatus tracks whether a review has been answered.
type ReplyStatus string

const (
	ReplyStatusPending   ReplyStatus = "pending"
	ReplyStatusCompleted ReplyStatus = "completed"
	ReplyStatusFailed    ReplyStatus = "failed"
)

// IsValid reports whether the value is a known ReplyStatus.
func (s ReplyStatus) IsValid() bool {
	switch s {
	case ReplyStatusPending, ReplyStatusCompleted, ReplyStatusFailed:
		return true
	}
	return false
}

// ParseReplyStatus converts raw input into a ReplyStatus.
func ParseReplyStatus(value string) (ReplyStatus, error) {
	status := ReplyStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid reply status %q", value)
	}
	return status, nil
}
