package weathercmd

import (
	"github.com/spf13/cobra"
)

func NewWeatherCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Run weather lookups directly, without the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newCurrentCommand(),
		newForecastCommand(),
	)

	return cmd
}

func newCurrentCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "current <location>",
		Short:   "Show current conditions",
		Example: `picoweather weather current "Paris"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return currentCmd(cmd, joinLocation(args))
		},
	}
}

func newForecastCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:     "forecast <location>",
		Short:   "Show a daily forecast",
		Example: `picoweather weather forecast "Oslo" --days 5`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return forecastCmd(cmd, joinLocation(args), days)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "n", 0, "Number of days, 1-14 (default from config)")

	return cmd
}
