package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/walnut/internal/codec"
)

func newFlashcardsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "flashcards <id>",
		Short: "Generate flashcards from a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := resolveNote(cmd.Context(), a.Notes, args[0])
			if err != nil {
				return err
			}
			as, err := a.Assistant()
			if err != nil {
				return err
			}
			cards, err := as.Flashcards(cmd.Context(), codec.ExtractPlainText(n.Document()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, c := range cards {
				fmt.Fprintf(out, "%d. %s\n   %s\n\n", i+1, c.Front, c.Back)
			}
			return nil
		},
	}
}

func newQuizCmd(flags *globalFlags) *cobra.Command {
	var showAnswers bool
	cmd := &cobra.Command{
		Use:   "quiz <id>",
		Short: "Generate a multiple-choice quiz from a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := resolveNote(cmd.Context(), a.Notes, args[0])
			if err != nil {
				return err
			}
			as, err := a.Assistant()
			if err != nil {
				return err
			}
			questions, err := as.Quiz(cmd.Context(), codec.ExtractPlainText(n.Document()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, q := range questions {
				fmt.Fprintf(out, "%d. %s\n", i+1, q.Question)
				for j, opt := range q.Options {
					marker := " "
					if showAnswers && j == q.CorrectAnswer {
						marker = "*"
					}
					fmt.Fprintf(out, "  %s %c) %s\n", marker, 'a'+rune(j), opt)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showAnswers, "answers", false, "mark the correct answers")
	return cmd
}

func newOrganizeCmd(flags *globalFlags) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "organize <id>",
		Short: "Reorganize a note into a structured outline",
		Long: `Reorganize a note into a structured outline. The result is printed; with
--apply it also replaces the note's content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := resolveNote(cmd.Context(), a.Notes, args[0])
			if err != nil {
				return err
			}
			as, err := a.Assistant()
			if err != nil {
				return err
			}
			text, err := a.Organize(cmd.Context(), as, n.ID, apply)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(text))
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "replace the note content with the result")
	return cmd
}
