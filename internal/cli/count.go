package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// newCountCmd creates the count command for counting without enumerating.
func newCountCmd() *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count set partitions without enumerating them",
		Long: `Count set partitions using Stirling numbers of the second kind.

The count for --mode all is the Bell number B(n), for --mode exact the
Stirling number S(n,k), and for --mode range a sum of Stirling numbers.

Examples:

  stirling count -n 10
  stirling count -n 10 --mode exact -k 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.build()
			if err != nil {
				return err
			}
			total, err := partition.Count(req)
			if err != nil {
				return err
			}

			switch req.Mode {
			case partition.ModeAll:
				printKeyValue(fmt.Sprintf("B(%d)", req.N), StyleNumber.Render(fmt.Sprintf("%d", total)))
			case partition.ModeExactK:
				printKeyValue(fmt.Sprintf("S(%d,%d)", req.N, req.K), StyleNumber.Render(fmt.Sprintf("%d", total)))
			default:
				printKeyValue(
					fmt.Sprintf("k∈[%d,%d]", req.KMin, req.KMax),
					StyleNumber.Render(fmt.Sprintf("%d", total)))
				for k := req.KMin; k <= req.KMax; k++ {
					printDetail("S(%d,%d) = %d", req.N, k, stirling.S(req.N, k))
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
