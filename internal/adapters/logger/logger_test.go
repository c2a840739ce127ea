package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/stencil/internal/adapters/logger"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	lg.Info("rendered page", "page", "index", "decision", "hit")
	lg.Warn("slow evaluation", "page", "about")

	g := goldie.New(t)
	g.Assert(t, "logger_levels", buf.Bytes())
}

func TestLogger_Verbose(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetVerbose(true)
	lg.Debug("span finished", "span", "compile")
	lg.SetVerbose(false)
	lg.Debug("hidden")

	assert.Equal(t, "~ span finished span=compile\n", buf.String())
}

func TestLogger_Error_BuildCycleChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	cause := zerr.With(zerr.Wrap(errors.New("can't evaluate field Nope"), ""), "hash", "1a2b3c4d5e6f7a8b")
	err := zerr.With(zerr.Wrap(errors.Join(domain.ErrEvaluationFailed, cause), ""), "page", "index")

	lg.Error(err)

	g := goldie.New(t)
	g.Assert(t, "error_build_cycle", buf.Bytes())
}

func TestLogger_Error_ZerrChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := zerr.With(zerr.New("database timeout"), "timeout_ms", 5000)
	outer := zerr.With(zerr.Wrap(inner, "failed to fetch user"), "user_id", "12345")
	lg.Error(outer)

	g := goldie.New(t)
	g.Assert(t, "error_chain_zerr", buf.Bytes())
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := errors.New("connection refused")
	lg.Error(fmt.Errorf("failed to connect: %w", inner))

	assert.Equal(t, "✗ Error: failed to connect: connection refused\n", buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String(), "Expected no output for nil error")
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	inner := errors.New("database connection failed")
	lg.Error(zerr.With(zerr.Wrap(inner, "failed to load template"), "page", "index"))
	lg.Info("rendered page", "decision", "miss")

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "failed to load template")
	assert.Contains(t, out, `"decision":"miss"`)
	assert.NotContains(t, out, "✗", "JSON format should not have pretty markers")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetJSON(true)
	lg.Info("json")
	assert.Contains(t, buf.String(), `"msg":"json"`)

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("pretty")
	assert.Equal(t, "pretty\n", buf.String())
}
