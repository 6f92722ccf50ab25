package options

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/timepouch/pkg/printers"
)

// FormatOptions
type FormatOptions struct {
	Format  string
	Verbose bool
}

func AddFormatArgs(cmd *cobra.Command, o *FormatOptions) {
	cmd.Flags().StringVarP(&o.Format, "format", "f", "",
		"Output format, one of text, csv or tsv. Defaults to the configured format, else text on a terminal and tsv when piped.")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Include entry ids.")
}

// Resolve picks the flag, then the configured format, then one based on
// whether stdout is a terminal.
func (o *FormatOptions) Resolve(configured string) (printers.Format, error) {
	switch {
	case o.Format != "":
		return printers.ParseFormat(o.Format)
	case configured != "":
		return printers.ParseFormat(configured)
	case isTerminal(os.Stdout):
		return printers.Text, nil
	default:
		return printers.TSV, nil
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
