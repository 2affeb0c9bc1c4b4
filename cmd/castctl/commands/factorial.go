package commands

import (
	"fmt"

	"github.com/lguibr/castctl/examples/factorial"
	"github.com/spf13/cobra"
)

var factorialCmd = &cobra.Command{
	Use:   "factorial n",
	Short: "Compute n! with a chain of actors",
	Long: `Spawns one actor per factor: each link multiplies the running
product by its assigned factor and either spawns the next link or reports
the final result.`,
	Args: cobra.ExactArgs(1),
	RunE: runFactorial,
}

func runFactorial(cmd *cobra.Command, args []string) error {
	var n uint64
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
		return fmt.Errorf("parse n: %w", err)
	}

	result, err := factorial.Run(n, runtimeOptions()...)
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}
