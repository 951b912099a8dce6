package main

import (
	"fmt"
	"os"

	"github.com/Rani367/CodLess-sub002/pkg/session"
)

type ExportCommand struct {
	RunsDir string `long:"runs" default:"saved_runs" description:"Directory for saved runs"`
	Output  string `long:"output" short:"o" description:"Write the program to a file instead of stdout"`
}

func (c *ExportCommand) Execute(args []string) error {
	store := session.NewStore(c.RunsDir)
	names, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
		os.Exit(1)
	}

	var runs []session.Run
	for _, name := range names {
		run, err := store.Load(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading run %q: %v\n", name, err)
			os.Exit(1)
		}
		runs = append(runs, run)
	}

	code, err := session.GenerateCompetitionCode(*loadOrDefaultConfig(), runs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "No saved runs found. Record and save some runs first.")
		os.Exit(1)
	}

	if c.Output == "" {
		fmt.Print(code)
		return nil
	}

	if err := os.WriteFile(c.Output, []byte(code), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.Output, err)
		os.Exit(1)
	}
	fmt.Printf("Competition program with %d runs written to %s\n", len(runs), c.Output)
	fmt.Println("Paste it at code.pybricks.com, upload it to the hub and pick a run from the hub menu.")
	return nil
}
