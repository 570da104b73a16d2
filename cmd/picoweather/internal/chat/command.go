package chat

import (
	"github.com/spf13/cobra"
)

func NewChatCommand() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the weather assistant (interactive unless -m is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), opts)
		},
	}

	AddFlags(cmd, &opts)

	return cmd
}

// AddFlags registers the chat flags on cmd, so the root command can accept
// them as well.
func AddFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Send a single message (non-interactive mode)")
	cmd.Flags().StringVarP(&opts.Model, "model", "", "", "Model to use, optionally prefixed with openai/ or anthropic/")
	cmd.Flags().StringVarP(&opts.FollowUp, "follow-up", "", "", "Answer phrasing after tool calls: none or once")
}
