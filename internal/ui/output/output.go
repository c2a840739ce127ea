// Package output creates termenv outputs with consistent color handling and
// renders the per-page summary line of a build cycle.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/ui/style"
)

// ColorProfile returns the color profile to use.
// NO_COLOR forces Ascii; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a new termenv.Output writing to w, or to stderr when w is nil.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// CycleLine renders one page's cycle result, e.g. "● index miss 1a2b3c4d5e6f7a8b (2 evaluations, 3ms)".
func CycleLine(out *termenv.Output, report *domain.CycleReport) string {
	noun := "evaluations"
	if report.Evaluations == 1 {
		noun = "evaluation"
	}

	line := fmt.Sprintf("%s %s %s %s (%d %s, %s)",
		style.DecisionIcon(report.Decision),
		report.Page,
		report.Decision,
		report.Hash,
		report.Evaluations,
		noun,
		report.Duration.Round(time.Millisecond),
	)

	color := out.Color(string(style.DecisionColor(report.Decision)))
	return out.String(line).Foreground(color).String()
}
