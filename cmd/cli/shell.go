package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"

	"github.com/nickyhof/LiteShell"
)

const pathQuestion = "DB file (leave blank to keep db alive only in memory):"

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
)

// CLI holds the CLI state
type CLI struct {
	// Timing adds a row count and execution time line after every result
	Timing bool

	prompt   Prompt
	out      io.Writer
	options  LiteShell.Options
	instance *LiteShell.Instance
}

func NewCLI(prompt Prompt, out io.Writer, options LiteShell.Options) *CLI {
	return &CLI{
		prompt:  prompt,
		out:     out,
		options: options,
	}
}

// Run asks for the database path, opens it, then executes one statement per
// line until input ends. Only a missing path or a failed open is an error.
func (cli *CLI) Run() error {
	fmt.Fprintln(cli.out, pathQuestion)

	path, err := Get(cli.prompt)
	if err != nil {
		return err
	}

	cli.options.Path = path
	instance, err := LiteShell.Open(cli.options)
	if err != nil {
		return err
	}
	cli.instance = instance
	defer func() {
		if err := instance.Close(); err != nil {
			log.Printf("close %s: %v", instance.DisplayPath(), err)
		}
	}()

	successColor.Fprintf(cli.out, "Opened DB \"%s\"\n\n", instance.DisplayPath())

	for {
		query, err := cli.prompt.Next()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(cli.out)
			return nil
		}
		if err != nil {
			return err
		}

		cli.execute(query)
	}
}

func (cli *CLI) execute(query string) {
	result, err := cli.instance.Execute(query)
	if err != nil {
		errorColor.Fprintf(cli.out, "ERROR: %v\n", err)
		return
	}
	result.Display(cli.out)
	if cli.Timing {
		fmt.Fprintln(cli.out, result.Stats())
	}
}
