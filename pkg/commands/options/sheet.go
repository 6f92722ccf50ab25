package options

import (
	"github.com/spf13/cobra"
)

// SheetOptions
type SheetOptions struct {
	Sheet string
	All   bool
}

func AddSheetArgs(cmd *cobra.Command, o *SheetOptions) {
	cmd.Flags().StringVarP(&o.Sheet, "sheet", "s", "",
		"Specify the sheet, defaults to the current sheet.")
}

func AddAllSheetsArg(cmd *cobra.Command, o *SheetOptions) {
	cmd.Flags().BoolVarP(&o.All, "all", "a", false,
		"Include every sheet.")
}
