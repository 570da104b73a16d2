package chat

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeed/picoweather/pkg/config"
)

type fakeTurner struct {
	inputs  []string
	replies map[string]string
	err     error
}

func (f *fakeTurner) Turn(_ context.Context, input string) (string, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return "", f.err
	}
	return f.replies[input], nil
}

func TestIsExitCommand(t *testing.T) {
	for _, in := range []string{"exit", "quit", "bye", "EXIT", " Bye ", "Quit\n"} {
		assert.True(t, IsExitCommand(in), in)
	}
	for _, in := range []string{"", "goodbye", "exit now", "weather in Paris"} {
		assert.False(t, IsExitCommand(in), in)
	}
}

func TestLoop_ExitKeywordsSendNoRequest(t *testing.T) {
	for _, kw := range []string{"exit", "quit", "bye", "BYE"} {
		t.Run(kw, func(t *testing.T) {
			turner := &fakeTurner{}
			var out bytes.Buffer

			in := newScannerReader(strings.NewReader(kw+"\nWeather in Paris?\n"), nil)
			require.NoError(t, Loop(t.Context(), in, turner, &out))

			assert.Empty(t, turner.inputs)
			assert.Contains(t, out.String(), "Goodbye!")
		})
	}
}

func TestLoop_PrintsRepliesAndSkipsBlankLines(t *testing.T) {
	turner := &fakeTurner{replies: map[string]string{
		"Weather in Paris?": "It is 18°C and sunny in Paris.",
		"And Oslo?":         "",
	}}
	var out bytes.Buffer

	in := newScannerReader(strings.NewReader("Weather in Paris?\n\n   \nAnd Oslo?\nquit\n"), &out)
	require.NoError(t, Loop(t.Context(), in, turner, &out))

	assert.Equal(t, []string{"Weather in Paris?", "And Oslo?"}, turner.inputs)
	assert.Contains(t, out.String(), "Assistant: It is 18°C and sunny in Paris.\n")
	assert.Equal(t, 1, strings.Count(out.String(), "Assistant:"))
	assert.Contains(t, out.String(), "You: ")
}

func TestLoop_TurnErrorKeepsGoing(t *testing.T) {
	turner := &fakeTurner{err: errors.New("LLM call failed: status=401")}
	var out bytes.Buffer

	in := newScannerReader(strings.NewReader("Paris?\nOslo?\n"), nil)
	require.NoError(t, Loop(t.Context(), in, turner, &out))

	assert.Len(t, turner.inputs, 2)
	assert.Equal(t, 2, strings.Count(out.String(), "Error: LLM call failed: status=401"))
	assert.Contains(t, out.String(), "Goodbye!")
}

type errReader struct{ err error }

func (r errReader) Readline() (string, error) { return "", r.err }

func TestLoop_InterruptAndReadErrors(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Loop(t.Context(), errReader{errInterrupted}, &fakeTurner{}, &out))
	assert.Contains(t, out.String(), "Goodbye!")

	err := Loop(t.Context(), errReader{io.ErrUnexpectedEOF}, &fakeTurner{}, &out)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLoop_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	turner := &fakeTurner{}
	var out bytes.Buffer
	require.NoError(t, Loop(ctx, newScannerReader(strings.NewReader("Paris?\n"), nil), turner, &out))
	assert.Empty(t, turner.inputs)
}

func TestApplyOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	applyOptions(cfg, Options{Model: "anthropic/claude-3-5-haiku-latest", FollowUp: " NONE "})

	assert.Equal(t, config.ProviderAnthropic, cfg.Provider.Name)
	assert.Equal(t, "anthropic/claude-3-5-haiku-latest", cfg.Provider.Model)
	assert.Equal(t, config.FollowUpNone, cfg.Agent.FollowUp)

	cfg = config.DefaultConfig()
	applyOptions(cfg, Options{Model: "gpt-4o-mini"})
	assert.Equal(t, config.ProviderOpenAI, cfg.Provider.Name)
	assert.Equal(t, config.FollowUpOnce, cfg.Agent.FollowUp)
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	_, err := NewSession(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingOpenAIKey)
	assert.ErrorIs(t, err, config.ErrMissingWeatherKey)
}

func TestNewSession_Wires(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Provider.OpenAIAPIKey = "sk-test"
	cfg.Weather.APIKey = "wk-test"

	session, err := NewSession(cfg)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.ID)
	require.Len(t, session.History(), 1)
	assert.Equal(t, config.DefaultSystemPrompt, session.History()[0].Content)
}

func TestPrintReply(t *testing.T) {
	var out bytes.Buffer
	printReply(&out, "")
	assert.Empty(t, out.String())

	printReply(&out, "Sunny.")
	assert.Equal(t, "Assistant: Sunny.\n", out.String())
}

func TestOneShot_ExitKeywordSendsNoRequest(t *testing.T) {
	for _, kw := range []string{"exit", " Quit ", "BYE"} {
		var out bytes.Buffer
		require.NoError(t, oneShot(t.Context(), kw, nil, &out), kw)
		assert.Equal(t, "Goodbye!\n", out.String(), kw)
	}
}

func TestOneShot_PrintsReply(t *testing.T) {
	turner := &fakeTurner{replies: map[string]string{"Paris?": "Sunny."}}
	var out bytes.Buffer

	require.NoError(t, oneShot(t.Context(), "Paris?", turner, &out))
	assert.Equal(t, []string{"Paris?"}, turner.inputs)
	assert.Equal(t, "Assistant: Sunny.\n", out.String())
}

func TestOneShot_ReturnsTurnError(t *testing.T) {
	turner := &fakeTurner{err: errors.New("LLM call failed")}
	var out bytes.Buffer

	err := oneShot(t.Context(), "Paris?", turner, &out)
	assert.EqualError(t, err, "LLM call failed")
	assert.Empty(t, out.String())
}

func TestRun_OneShotExitNeedsNoConfig(t *testing.T) {
	t.Setenv("PICOWEATHER_CONFIG", t.TempDir()+"/missing.json")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("WEATHER_API_KEY", "")

	assert.NoError(t, Run(t.Context(), Options{Message: "bye"}))
}
