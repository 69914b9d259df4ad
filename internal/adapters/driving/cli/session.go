package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intervo/internal/core/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage interview sessions",
	Long: `Start sessions and submit answers without the interactive UI.

Useful for scripting and for driving interviews from other tools. For
an interactive interview, use "intervo interview" instead.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [guide-id]",
	Short: "Start a session against a guide's active version",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionStart,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session's progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionAnswerCmd = &cobra.Command{
	Use:   "answer [session-id] [question-id] [answer...]",
	Short: "Submit an answer for the session's current question",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runSessionAnswer,
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionAnswerCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionStart(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, question, err := sessionService.Start(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	cmd.Printf("Session %s started\n", session.ID)
	cmd.Printf("First question [%s]: %s\n", question.ID, question.Text)
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	session, question, err := sessionService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	cmd.Printf("Session %s (guide %s)\n", session.ID, session.GuideID)
	cmd.Printf("Answered: %d\n", len(session.State.AnsweredQuestions))
	if session.State.IsComplete {
		cmd.Println("Status: complete")
		return nil
	}
	cmd.Printf("Current question [%s]: %s\n", question.ID, question.Text)
	return nil
}

func runSessionAnswer(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	answer := strings.Join(args[2:], " ")
	result, err := sessionService.SubmitAnswer(cmd.Context(), args[0], args[1], answer)
	if err != nil {
		if qe, ok := domain.IsQualityError(err); ok {
			return fmt.Errorf("answer rejected: %s", qe.Reason)
		}
		return fmt.Errorf("submitting answer: %w", err)
	}

	for _, fu := range result.FollowUps {
		cmd.Printf("Follow-up: %s\n", fu.Prompt)
	}
	if result.IsComplete {
		cmd.Println("Interview complete.")
		return nil
	}
	cmd.Printf("Next question [%s]: %s\n", result.NextQuestion.ID, result.NextQuestion.Text)
	return nil
}
