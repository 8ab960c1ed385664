// Package main implements the walnut CLI: a note-taking tool with a rich text
// terminal editor and study aids generated from notes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/walnut/internal/app"
	"github.com/dshills/walnut/internal/notes"
)

var version = "dev"

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "walnut",
		Short: "Rich text notes with study aids",
		Long: `walnut keeps notes as rich text documents with headings, lists and
bold/italic/underline marks. Notes are edited in the terminal and saved
automatically. Flashcards, quizzes and reorganized notes can be generated
from any note through an OpenAI-compatible chat completion endpoint.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/walnut/config.toml)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "note database path")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newListCmd(flags),
		newNewCmd(flags),
		newShowCmd(flags),
		newExportCmd(flags),
		newDeleteCmd(flags),
		newEditCmd(flags),
		newFlashcardsCmd(flags),
		newQuizCmd(flags),
		newOrganizeCmd(flags),
	)
	return root
}

func openApp(cmd *cobra.Command, flags *globalFlags) (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath: flags.configPath,
		DBPath:     flags.dbPath,
		LogLevel:   flags.logLevel,
		LogOutput:  cmd.ErrOrStderr(),
	})
}

// resolveNote finds a note by ID or unique ID prefix.
func resolveNote(ctx context.Context, nb *notes.Notebook, arg string) (notes.Note, error) {
	list, err := nb.List(ctx)
	if err != nil {
		return notes.Note{}, err
	}
	var matches []notes.Note
	for _, n := range list {
		if n.ID == arg {
			return n, nil
		}
		if strings.HasPrefix(n.ID, arg) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return notes.Note{}, fmt.Errorf("%w: %s", notes.ErrNoteNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return notes.Note{}, fmt.Errorf("note ID %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func readInput(r io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(r)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
