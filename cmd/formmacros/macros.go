package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formmacros/pkg/macros"
)

func macrosCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "macros",
		Short: "Lists the template tags the macro set installs",
		Long: `Lists the template tags the macro set installs, their syntax and the
code each one emits.

For example:
formmacros macros`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Tag", "Syntax", "Block", "Emits"})
			table.SetAutoWrapText(false)

			if out, ok := cmd.OutOrStdout().(*os.File); ok && isatty.IsTerminal(out.Fd()) {
				blueBold := tablewriter.Colors{tablewriter.FgBlueColor, tablewriter.Bold}
				table.SetHeaderColor(blueBold, blueBold, blueBold, blueBold)
			}

			for _, tag := range macros.Tags() {
				block := "no"
				if tag.Block {
					block = "yes"
				}
				table.Append([]string{tag.Name, tag.Syntax, block, tag.Emits})
			}
			table.Render()
			a.logger.WithField("tags", len(macros.Tags())).Debug("macro table rendered")
		},
	}
}
