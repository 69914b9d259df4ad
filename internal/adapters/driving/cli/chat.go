package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question...]",
	Short: "Ask the configured AI provider a question",
	Long: `Send a one-off question to the configured text-generation provider.

Useful for checking that the provider is reachable and configured
correctly before running interviews.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question := strings.Join(args, " ")
	answer, err := chatService.Send(cmd.Context(), nil, question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
