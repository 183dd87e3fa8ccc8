package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/empoweryouth/apiprobe/packages/suite"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scenarios in execution order",
	Long: `List every scenario of the EmpowerYouth plan in the order run executes
them, with its priority tier and the scenarios whose session state it reads.

Examples:
  apiprobe list`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	plan := suite.DefaultPlan()

	for i, sc := range plan.Order() {
		fmt.Fprintf(out, "%2d. [%s] %s\n", i+1, sc.Priority, sc.Name)
		if len(sc.Depends) > 0 {
			fmt.Fprintf(out, "    depends on: %s\n", strings.Join(sc.Depends, ", "))
		}
	}
	fmt.Fprintf(out, "\n%d scenarios\n", plan.Len())
	return nil
}
