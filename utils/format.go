package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// MessageType is a custom type used as a placeholder for various message types.
type MessageType int

// The message types used across the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// Terminal colors used across the CLI application.
var (
	StatusColor  = lipgloss.Color("36")
	SuccessColor = lipgloss.Color("35")
	ErrorColor   = lipgloss.Color("167")
)

var (
	statusStyle  = lipgloss.NewStyle().Bold(true).Foreground(StatusColor)
	successStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	errorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
)

// DecorateText shows the message types in different colors.
func DecorateText(s string, msgType MessageType) string {
	switch msgType {
	case StatusMessage:
		return statusStyle.Render(s)
	case SuccessMessage:
		return successStyle.Render(s)
	case ErrorMessage:
		return errorStyle.Render(s)
	}
	return s
}

// FormatTime formats time.Duration output to a human readable value.
func FormatTime(d time.Duration) string {
	if d.Seconds() < 60.0 {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	if d.Minutes() < 60.0 {
		remainingSeconds := math.Mod(d.Seconds(), 60)
		return fmt.Sprintf("%dm %.2fs", int64(d.Minutes()), remainingSeconds)
	}
	remainingMinutes := math.Mod(d.Minutes(), 60)
	remainingSeconds := math.Mod(d.Seconds(), 60)
	return fmt.Sprintf("%dh %dm %.2fs",
		int64(d.Hours()), int64(remainingMinutes), remainingSeconds)
}
