package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sipeed/picoweather/cmd/picoweather/internal"
)

const prompt = "You: "

var errInterrupted = errors.New("interrupted")

// LineReader yields one line of user input per call. io.EOF and
// errInterrupted end the loop.
type LineReader interface {
	Readline() (string, error)
}

func interactiveMode(ctx context.Context, turner Turner, out io.Writer) error {
	historyFile := internal.GetHistoryPath()
	_ = os.MkdirAll(filepath.Dir(historyFile), 0o755)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(out, "Error initializing readline: %v\n", err)
		fmt.Fprintln(out, "Falling back to simple input mode...")
		return Loop(ctx, newScannerReader(os.Stdin, out), turner, out)
	}
	defer rl.Close()

	return Loop(ctx, readlineReader{rl}, turner, out)
}

// Loop reads lines until an exit keyword, EOF, interrupt or context
// cancellation. Each non-empty, non-exit line is one turn. Turn errors are
// printed and the loop keeps going.
func Loop(ctx context.Context, in LineReader, turner Turner, out io.Writer) error {
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}

		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, errInterrupted) {
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("error reading input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if IsExitCommand(input) {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		reply, err := turner.Turn(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printReply(out, reply)
	}
}

type readlineReader struct {
	rl *readline.Instance
}

func (r readlineReader) Readline() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errInterrupted
	}
	return line, err
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newScannerReader(in io.Reader, out io.Writer) *scannerReader {
	return &scannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (s *scannerReader) Readline() (string, error) {
	if s.out != nil {
		fmt.Fprint(s.out, prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}
