package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Rani367/CodLess-sub002/pkg/session"
)

type RunsCommand struct {
	RunsDir string `long:"runs" default:"saved_runs" description:"Directory for saved runs"`
}

func (c *RunsCommand) Execute(args []string) error {
	store := session.NewStore(c.RunsDir)

	if len(args) == 2 && args[0] == "delete" {
		return deleteRun(store, args[1])
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: codless runs [delete <name>]")
		os.Exit(1)
	}

	names, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
		os.Exit(1)
	}
	if len(names) == 0 {
		fmt.Println("No saved runs. Record one with 'codless drive'.")
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		run, err := store.Load(name)
		if err != nil {
			continue
		}
		when := "-"
		if !run.Timestamp.IsZero() {
			when = run.Timestamp.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", len(run.Commands)), when})
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Run", "Commands", "Recorded").
		Rows(rows...)
	fmt.Println(t.Render())
	return nil
}

func deleteRun(store *session.Store, name string) error {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete run %q?", name)).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil || !confirmed {
		return nil
	}

	if err := store.Delete(name); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting run: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted run %q\n", name)
	return nil
}
