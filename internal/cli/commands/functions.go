package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aindus-labs/veritas/internal/cli/output"
)

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the available functions",
		Long: `List the whitelisted functions a query may call.

Only these names are callable; anything else fails validation before
evaluation. Functions can be removed from the set with the
disabled_functions configuration key.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			return printFunctions(cmdCtx)
		},
	}
}

// functionInfo is the JSON shape of one registry entry.
type functionInfo struct {
	Name  string `json:"name"`
	Arity int    `json:"arity"`
	Doc   string `json:"doc"`
}

func printFunctions(cmdCtx *CommandContext) error {
	registry := cmdCtx.Calculator.Functions()

	if cmdCtx.Renderer.Mode() == output.ModeJSON {
		infos := make([]functionInfo, 0, registry.Len())
		for _, name := range registry.Names() {
			fn, _ := registry.Lookup(name)
			infos = append(infos, functionInfo{Name: fn.Name, Arity: fn.Arity, Doc: fn.Doc})
		}
		return cmdCtx.Renderer.JSON(infos)
	}

	rows := make([][]string, 0, registry.Len())
	for _, name := range registry.Names() {
		fn, _ := registry.Lookup(name)
		rows = append(rows, []string{fn.Name, strconv.Itoa(fn.Arity), fn.Doc})
	}
	cmdCtx.Renderer.Table([]string{"Function", "Arity", "Description"}, rows)
	return nil
}
