package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/ui/style"
)

func TestDecisionStyle(t *testing.T) {
	tests := []struct {
		decision domain.Decision
		icon     string
		color    string
	}{
		{domain.DecisionCold, style.Dot, string(style.Green)},
		{domain.DecisionMiss, style.Dot, string(style.Green)},
		{domain.DecisionHit, style.Circle, string(style.Slate)},
		{domain.DecisionForced, style.Tilde, string(style.Iris)},
		{domain.Decision(42), style.Warning, string(style.Yellow)},
	}

	for _, tt := range tests {
		t.Run(tt.decision.String(), func(t *testing.T) {
			assert.Equal(t, tt.icon, style.DecisionIcon(tt.decision))
			assert.Equal(t, tt.color, string(style.DecisionColor(tt.decision)))
		})
	}
}
