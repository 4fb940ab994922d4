package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// PromptMarker is printed before every read
const PromptMarker = "> "

// ErrNoInput is returned when input ends where a line is required
var ErrNoInput = errors.New("unexpected end of input")

// Prompt reads one line per call, returning io.EOF once input has ended
type Prompt interface {
	Next() (string, error)
	Close() error
}

// unrecordedPrompt is a Prompt keeping a history that some lines stay out of
type unrecordedPrompt interface {
	nextUnrecorded() (string, error)
}

// Get reads a line that must be present. It is not added to the history.
func Get(prompt Prompt) (string, error) {
	var line string
	var err error
	if p, ok := prompt.(unrecordedPrompt); ok {
		line, err = p.nextUnrecorded()
	} else {
		line, err = prompt.Next()
	}
	if errors.Is(err, io.EOF) {
		return "", ErrNoInput
	}
	return line, err
}

// linePrompt reads from any reader, for pipes and tests
type linePrompt struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewLinePrompt(in io.Reader, out io.Writer) Prompt {
	return &linePrompt{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (p *linePrompt) Next() (string, error) {
	fmt.Fprint(p.out, PromptMarker)
	if f, ok := p.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return "", err
		}
	}

	line, err := p.reader.ReadString('\n')
	if err != nil {
		// A last line without a terminator still counts
		if errors.Is(err, io.EOF) && line != "" {
			return trimLine(line), nil
		}
		return "", err
	}
	return trimLine(line), nil
}

func (p *linePrompt) Close() error {
	return nil
}

func trimLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// readlinePrompt adds line editing and persistent history on a terminal
type readlinePrompt struct {
	rl *readline.Instance
}

func NewReadlinePrompt(historyFile string) (Prompt, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 PromptMarker,
		HistoryFile:            historyFile,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &readlinePrompt{rl: rl}, nil
}

// Next reads a statement and records it in the history
func (p *readlinePrompt) Next() (string, error) {
	line, err := p.read()
	if err == nil && strings.TrimSpace(line) != "" {
		p.rl.SaveHistory(line)
	}
	return line, err
}

func (p *readlinePrompt) nextUnrecorded() (string, error) {
	return p.read()
}

// read returns io.EOF on Ctrl-D, and on Ctrl-C at an empty line.
// Ctrl-C with text discards the line and prompts again.
func (p *readlinePrompt) read() (string, error) {
	for {
		line, err := p.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return "", io.EOF
			}
			continue
		}
		return line, err
	}
}

func (p *readlinePrompt) Close() error {
	return p.rl.Close()
}
