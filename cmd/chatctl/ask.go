package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"campus-chatbot/pkg/dialogue"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ask [message]...",
		Short: "Run messages through one conversation",
		Long: `Each argument is one turn of the same conversation, so flow follow-ups
work across arguments. Without arguments chatctl reads one turn per line
from stdin until EOF or an empty line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, factory, err := opts.load(cmd)
			if err != nil {
				return err
			}

			engine := factory.NewEngine()
			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			turn := func(message string) error {
				res := engine.ProcessTurn(ctx, message)
				if jsonOutput {
					return jsoniter.NewEncoder(out).Encode(res)
				}
				return printTurn(out, message, res)
			}

			if len(args) > 0 {
				for _, message := range args {
					if err := turn(message); err != nil {
						return err
					}
				}
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					break
				}
				if err := turn(line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print each turn as a JSON object")
	return cmd
}

func printTurn(w io.Writer, message string, res dialogue.TurnResult) error {
	topic := res.CurrentTopic
	if topic == "" {
		topic = "-"
	}
	_, err := fmt.Fprintf(w, "> %s\n[%s %.2f %s topic=%s]\n%s\n\n",
		message, res.Intent, res.Confidence, res.Method, topic, res.Response)
	return err
}
