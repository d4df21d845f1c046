// Package main is the entry point for the skillcheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/skillcheck/cmd/skillcheck/commands"
	"github.com/thoreinstein/skillcheck/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		// A nil inner error means the report already told the story.
		if exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, "Error:", exitErr.Err)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(errors.ExitUser)
}
