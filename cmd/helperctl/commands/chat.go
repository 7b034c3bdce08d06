package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/benvon/homework-helper/internal/client"
	"github.com/benvon/homework-helper/internal/models"
	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command with greet, send and history subcommands
func NewChatCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the study assistant",
	}
	cmd.AddCommand(newChatGreetCmd(opts))
	cmd.AddCommand(newChatSendCmd(opts))
	cmd.AddCommand(newChatHistoryCmd(opts))
	return cmd
}

func newChatGreetCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "greet",
		Short: "Ask the assistant for an opening message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := opts.Client().Greeting(cmd.Context())
			if err != nil {
				return fmt.Errorf("greeting: %w", err)
			}
			printMessage(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newChatSendCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message; the current homework list is included automatically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("message is required")
			}

			msg, err := opts.Client().SendMessage(cmd.Context(), message)
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) {
					switch apiErr.StatusCode {
					case http.StatusConflict:
						return fmt.Errorf("the assistant is still answering a previous message")
					case http.StatusBadGateway:
						// the apology is also recorded in the transcript
						printMessage(cmd.OutOrStdout(), models.ChatMessage{Role: models.MessageRoleModel, Text: apiErr.Message})
						return nil
					}
				}
				return fmt.Errorf("send message: %w", err)
			}
			printMessage(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newChatHistoryCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the conversation so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := opts.Client().History(cmd.Context())
			if err != nil {
				return fmt.Errorf("chat history: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, msg := range history.Messages {
				printMessage(out, msg)
			}
			if history.Busy {
				fmt.Fprintln(out, "(assistant is typing...)")
			}
			return nil
		},
	}
}

func printMessage(w io.Writer, msg models.ChatMessage) {
	who := "assistant"
	if msg.Role == models.MessageRoleUser {
		who = "you"
	}
	fmt.Fprintf(w, "%s: %s\n", who, msg.Text)
}
