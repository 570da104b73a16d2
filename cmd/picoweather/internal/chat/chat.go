package chat

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sipeed/picoweather/cmd/picoweather/internal"
	"github.com/sipeed/picoweather/pkg/agent"
	"github.com/sipeed/picoweather/pkg/config"
	"github.com/sipeed/picoweather/pkg/logger"
	"github.com/sipeed/picoweather/pkg/providers"
	"github.com/sipeed/picoweather/pkg/tools"
	"github.com/sipeed/picoweather/pkg/weather"
)

type Options struct {
	Debug    bool
	Message  string
	Model    string
	FollowUp string
}

// Turner runs one conversation turn; *agent.Session implements it.
type Turner interface {
	Turn(ctx context.Context, input string) (string, error)
}

func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// An exit keyword as the whole message ends before any config or key is
	// needed, same as in the shell.
	if opts.Message != "" && IsExitCommand(opts.Message) {
		return oneShot(ctx, opts.Message, nil, os.Stdout)
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	applyOptions(cfg, opts)

	if err := internal.SetupLogging(cfg, opts.Debug); err != nil {
		return err
	}
	defer logger.DisableFileLogging()
	if opts.Debug {
		fmt.Println("Debug mode enabled")
	}

	session, err := NewSession(cfg)
	if err != nil {
		return err
	}

	logger.InfoCF("chat", "Session started",
		map[string]any{
			"session_id": session.ID,
			"provider":   cfg.Provider.Name,
		})

	if opts.Message != "" {
		return oneShot(ctx, opts.Message, session, os.Stdout)
	}

	fmt.Printf("%s PicoWeather. Ask about the weather anywhere (exit, quit or bye to leave)\n\n", internal.Logo)
	return interactiveMode(ctx, session, os.Stdout)
}

// applyOptions folds command-line overrides into cfg. A provider prefix on
// the model flag also selects the provider.
func applyOptions(cfg *config.Config, opts Options) {
	if model := strings.TrimSpace(opts.Model); model != "" {
		cfg.Provider.Model = model
		if ref := providers.ParseModelRef(model, cfg.Provider.Name); ref != nil {
			cfg.Provider.Name = ref.Provider
		}
	}
	if opts.FollowUp != "" {
		cfg.Agent.FollowUp = strings.ToLower(strings.TrimSpace(opts.FollowUp))
	}
}

// NewSession validates cfg and wires provider, weather client, tool registry
// and processor into a fresh conversation.
func NewSession(cfg *config.Config) (*agent.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	provider, model, err := providers.CreateProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}

	client := weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL,
		weather.WithTimeout(cfg.Weather.RequestTimeout()))
	registry, err := tools.NewWeatherRegistry(client, cfg.Weather.ForecastDays)
	if err != nil {
		return nil, err
	}

	policy, err := agent.ParseFollowUpPolicy(cfg.Agent.FollowUp)
	if err != nil {
		return nil, err
	}

	processor, err := agent.NewProcessor(provider, registry, agent.ProcessorConfig{
		Model:       model,
		FollowUp:    policy,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
	})
	if err != nil {
		return nil, err
	}

	return agent.NewSession(processor, cfg.Agent.SystemPrompt), nil
}

// oneShot answers a single -m message. Exit keywords are honoured here too
// and send no model request.
func oneShot(ctx context.Context, message string, turner Turner, out io.Writer) error {
	if IsExitCommand(message) {
		fmt.Fprintln(out, "Goodbye!")
		return nil
	}
	reply, err := turner.Turn(ctx, message)
	if err != nil {
		return err
	}
	printReply(out, reply)
	return nil
}

// IsExitCommand reports whether input asks to leave the shell.
func IsExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit", "bye":
		return true
	}
	return false
}

func printReply(w io.Writer, reply string) {
	if reply == "" {
		return
	}
	fmt.Fprintf(w, "Assistant: %s\n", reply)
}
