package ui

// MessageLog keeps the most recent messages, oldest first.
type MessageLog struct {
	lines []string
	limit int
}

// NewMessageLog creates a log holding at most limit messages.
func NewMessageLog(limit int) *MessageLog {
	if limit < 1 {
		limit = 1
	}
	return &MessageLog{lines: make([]string, 0, limit), limit: limit}
}

// Add appends a message, dropping the oldest once the log is full.
func (l *MessageLog) Add(msg string) {
	if len(l.lines) == l.limit {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:len(l.lines)-1]
	}
	l.lines = append(l.lines, msg)
}

// Lines returns the messages, oldest first.
func (l *MessageLog) Lines() []string {
	return l.lines
}

// Last returns the newest message, or "" when empty.
func (l *MessageLog) Last() string {
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}

// Len returns the number of messages held.
func (l *MessageLog) Len() int {
	return len(l.lines)
}
