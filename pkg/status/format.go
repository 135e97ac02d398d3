package status

import (
	"fmt"
)

// FileFormatter defines how file results and progress should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a single file result
	FormatFileOperation(path string, status FileStatus, replacements int) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file result with emojis
func (f *DefaultFileFormatter) FormatFileOperation(path string, status FileStatus, replacements int) string {
	switch status {
	case StatusCreated:
		return fmt.Sprintf("✨ Created %s (%d replacements)", path, replacements)
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s (%d replacements)", path, replacements)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}
