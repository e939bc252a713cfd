package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
)

// requestFlags gathers the enumeration flags shared by enumerate, count, and
// tui.
type requestFlags struct {
	n       int
	mode    string
	k       int
	kmin    int
	kmax    int
	variant string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.n, "n", "n", 4, "size of the set {1..n}")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "all", "enumeration mode: all, exact, range")
	cmd.Flags().IntVarP(&f.k, "blocks", "k", 0, "block count for exact mode")
	cmd.Flags().IntVar(&f.kmin, "kmin", 0, "minimum block count for range mode")
	cmd.Flags().IntVar(&f.kmax, "kmax", 0, "maximum block count for range mode")
	cmd.Flags().StringVar(&f.variant, "variant", "x", "exact-mode successor variant: x or y")
}

func (f *requestFlags) build() (partition.Request, error) {
	mode, err := partition.ParseMode(f.mode)
	if err != nil {
		return partition.Request{}, err
	}

	req := partition.Request{
		N:    f.n,
		Mode: mode,
		K:    f.k,
		KMin: f.kmin,
		KMax: f.kmax,
	}
	switch f.variant {
	case "", "x":
		req.Variant = partition.VariantX
	case "y":
		req.Variant = partition.VariantY
	default:
		return partition.Request{}, fmt.Errorf("unknown variant %q (must be x or y)", f.variant)
	}
	if err := req.Validate(); err != nil {
		return partition.Request{}, err
	}
	return req, nil
}
