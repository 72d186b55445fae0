package content

import "time"

// Feedback field limits, in runes.
const (
	MaxFeedbackNameLen    = 100
	MaxFeedbackEmailLen   = 100
	MaxFeedbackMessageLen = 1000
	MaxCaptionLen         = 100
)

// FeedbackEntry is an append-only visitor message.
type FeedbackEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
