package partition

import "github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"

// Count returns the number of partitions the request enumerates without
// walking them: the Bell number for ModeAll, S(n,k) for ModeExactK, and a
// sum of Stirling numbers for ModeRange. A cursor created by [First] visits
// exactly this many RGS.
func Count(req Request) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	switch req.Mode {
	case ModeExactK:
		return stirling.S(req.N, req.K), nil
	case ModeRange:
		var sum int64
		for k := req.KMin; k <= req.KMax; k++ {
			sum += stirling.S(req.N, k)
		}
		return sum, nil
	default:
		return stirling.Bell(req.N), nil
	}
}
