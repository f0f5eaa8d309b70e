// Package repl implements the interactive prompt that feeds user questions to
// the agent one at a time.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

const maxLineBytes = 1024 * 1024

// Agent answers one user input per call.
type Agent interface {
	Run(ctx context.Context, input string) (string, error)
}

// Session is a single interactive conversation bound to an input and output.
type Session struct {
	ID     string
	Title  string
	agent  Agent
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewSession creates a Session. Title is printed in the banner.
func NewSession(agent Agent, in io.Reader, out io.Writer, title string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		ID:     id,
		Title:  title,
		agent:  agent,
		in:     in,
		out:    out,
		logger: logger.With("session_id", id),
	}
}

// Run reads queries until "exit", end of input or context cancellation.
// Agent failures are printed and the loop continues.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started")
	defer s.logger.Info("session ended")

	s.printBanner()

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(s.out, "\nYour query: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(s.out, "\nGoodbye!")
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}

		answer, err := s.agent.Run(ctx, input)
		if err != nil {
			s.logger.Error("agent turn failed", "error", err)
			fmt.Fprintln(s.out, "\n--- An error occurred ---")
			fmt.Fprintf(s.out, "Error: %v\n", err)
			fmt.Fprintln(s.out, "-------------------------")
			continue
		}

		fmt.Fprintln(s.out, "\n--- Agent Response ---")
		fmt.Fprintln(s.out, answer)
		fmt.Fprintln(s.out, "----------------------")
	}
}

func (s *Session) printBanner() {
	fmt.Fprintf(s.out, "--- %s ---\n", s.Title)
	fmt.Fprintln(s.out, "I can help you query logs from Grafana Loki using natural language.")
	fmt.Fprintln(s.out, "Examples: ")
	fmt.Fprintln(s.out, "  - 'Show me the last 100 system logs from the last 30 minutes.'")
	fmt.Fprintln(s.out, "  - 'Find all error messages in nginx logs from yesterday.'")
	fmt.Fprintln(s.out, "  - 'Count errors by application in the last hour.'")
	fmt.Fprintln(s.out, "Type 'exit' to quit.")
}
