package onboard

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sipeed/picoweather/cmd/picoweather/internal"
	"github.com/sipeed/picoweather/pkg/config"
)

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

func onboard(cmd *cobra.Command, force bool) error {
	configPath := internal.GetConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s: %w", configPath, errConfigExists)
	}

	if err := config.SaveConfig(configPath, config.DefaultConfig()); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s picoweather is ready!\n", internal.Logo)
	fmt.Fprintf(out, "  Config: %s\n", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Export your keys (or add them to the config file):")
	fmt.Fprintln(out, "       export OPENAI_API_KEY=...")
	fmt.Fprintln(out, "       export WEATHER_API_KEY=...")
	fmt.Fprintln(out, "  2. Start chatting: picoweather")
	return nil
}
