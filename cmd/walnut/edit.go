package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/walnut/internal/app"
	"github.com/dshills/walnut/internal/logging"
	"github.com/dshills/walnut/internal/tui"
)

func newEditCmd(flags *globalFlags) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note in the terminal",
		Long: `Edit a note in the terminal. Changes are saved automatically a moment
after typing stops, and on exit.

Shortcuts typed at the start of a line followed by a space:
  #   heading one        ##  heading two
  -   bulleted list      1.  numbered list

Keys:
  Ctrl-B/Ctrl-T/Ctrl-U  bold, italic, underline
  F1/F2                 heading one, heading two
  F3/F4                 bulleted list, numbered list
  Ctrl-Z/Ctrl-Y         undo, redo
  Ctrl-S                save now
  Esc/Ctrl-Q            quit`,
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
			sess, err := a.OpenSession(cmd.Context(), n.ID)
			if err != nil {
				return err
			}
			defer sess.Close()
			if title != "" {
				if err := sess.SetTitle(title); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				if err := a.WatchConfig(ctx, sess); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, app.ErrNoConfigFile) {
					a.Logger.Warn().Err(err).Msg("config watch stopped")
				}
			}()

			host, err := tui.NewTerminal(sess, logging.Component(a.Logger, "tui"))
			if err != nil {
				return err
			}
			if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "rename the note")
	return cmd
}
