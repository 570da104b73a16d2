// PicoWeather - terminal weather assistant
// License: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sipeed/picoweather/cmd/picoweather/internal"
	"github.com/sipeed/picoweather/cmd/picoweather/internal/chat"
	"github.com/sipeed/picoweather/cmd/picoweather/internal/onboard"
	"github.com/sipeed/picoweather/cmd/picoweather/internal/version"
	"github.com/sipeed/picoweather/cmd/picoweather/internal/weathercmd"
)

// NewPicoweatherCommand builds the root command. Without a subcommand it
// starts the interactive chat.
func NewPicoweatherCommand() *cobra.Command {
	var opts chat.Options

	short := fmt.Sprintf("%s picoweather - terminal weather assistant v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:          "picoweather",
		Short:        short,
		Example:      "picoweather\npicoweather chat -m \"Will it rain in Oslo tomorrow?\"",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return chat.Run(cmd.Context(), opts)
		},
	}

	chat.AddFlags(cmd, &opts)

	cmd.AddCommand(
		chat.NewChatCommand(),
		onboard.NewOnboardCommand(),
		weathercmd.NewWeatherCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewPicoweatherCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
