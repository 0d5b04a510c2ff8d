package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon.
// Multi-line messages (compiler diagnostics) are kept intact below the first line.
func FormatError(message string) string {
	first, rest, multi := strings.Cut(strings.TrimRight(message, "\n"), "\n")
	if r, size := utf8.DecodeRuneInString(first); size > 0 {
		first = string(unicode.ToUpper(r)) + first[size:]
	}

	out := color.New(color.FgRed).Sprintf("❌ %s", first)
	if multi {
		out += "\n" + rest
	}
	return out
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatSize renders a byte count with a binary unit
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

func label(name string) string {
	return color.New(color.FgWhite, color.Bold).Sprintf("%-14s", name+":")
}
