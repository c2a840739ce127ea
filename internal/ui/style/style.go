// Package style provides shared UI styling primitives: brand colors, icons and
// the decision badges printed after each build cycle.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/stencil/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
	Circle  = "○"
)

// DecisionIcon returns the icon shown for a gate decision.
func DecisionIcon(d domain.Decision) string {
	switch d {
	case domain.DecisionHit:
		return Circle
	case domain.DecisionMiss, domain.DecisionCold:
		return Dot
	case domain.DecisionForced:
		return Tilde
	default:
		return Warning
	}
}

// DecisionColor returns the brand color of a gate decision.
func DecisionColor(d domain.Decision) lipgloss.Color {
	switch d {
	case domain.DecisionHit:
		return Slate
	case domain.DecisionMiss, domain.DecisionCold:
		return Green
	case domain.DecisionForced:
		return Iris
	default:
		return Yellow
	}
}
