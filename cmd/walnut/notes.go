package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dshills/walnut/internal/codec"
)

const previewWidth = 40

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.Notes.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes yet. Create one with: walnut new <title>")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tUPDATED\tPREVIEW")
			for _, n := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(n.ID), n.DisplayTitle(), humanize.Time(n.UpdatedAt), n.Preview(previewWidth))
			}
			return w.Flush()
		},
	}
}

func newNewCmd(flags *globalFlags) *cobra.Command {
	var text, file string
	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Create a note",
		Long: `Create a note. Initial text can be given with --text or read from a file
(--file, "-" for stdin); each line becomes a paragraph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if file != "" {
				if text, err = readInput(cmd.InOrStdin(), file); err != nil {
					return err
				}
			}
			content := ""
			if text != "" {
				content = codec.Serialize(codec.DecodePlainText(text))
			}
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			n, err := a.Notes.Create(cmd.Context(), title, content)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "initial text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read initial text from a file")
	return cmd
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note",
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
			out := cmd.OutOrStdout()
			switch format {
			case "text":
				fmt.Fprintln(out, codec.ExtractPlainText(n.Document()))
			case "html":
				fmt.Fprintln(out, codec.ToHTML(n.Document()))
			case "json":
				fmt.Fprintln(out, codec.Serialize(n.Document()))
			default:
				return fmt.Errorf("unknown format %q (want text, html or json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, html or json")
	return cmd
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a note as a standalone HTML page",
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
			page := codec.ExportHTML(n.DisplayTitle(), n.Document())
			if output == "" || output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), page)
				return err
			}
			return os.WriteFile(output, []byte(page), 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
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
			if err := a.Notes.Delete(cmd.Context(), n.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", n.DisplayTitle())
			return nil
		},
	}
}
