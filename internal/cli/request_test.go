package cli

import (
	"errors"
	"testing"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
)

func TestRequestFlagsBuild(t *testing.T) {
	tests := []struct {
		name    string
		flags   requestFlags
		want    partition.Request
		wantErr bool
	}{
		{
			name:  "defaults",
			flags: requestFlags{n: 4, mode: "all", variant: "x"},
			want:  partition.Request{N: 4, Mode: partition.ModeAll, Variant: partition.VariantX},
		},
		{
			name:  "exact with variant y",
			flags: requestFlags{n: 6, mode: "exact", k: 3, variant: "y"},
			want:  partition.Request{N: 6, Mode: partition.ModeExactK, K: 3, Variant: partition.VariantY},
		},
		{
			name:  "range",
			flags: requestFlags{n: 6, mode: "range", kmin: 2, kmax: 4, variant: "x"},
			want:  partition.Request{N: 6, Mode: partition.ModeRange, KMin: 2, KMax: 4, Variant: partition.VariantX},
		},
		{
			name:    "unknown mode",
			flags:   requestFlags{n: 4, mode: "most", variant: "x"},
			wantErr: true,
		},
		{
			name:    "unknown variant",
			flags:   requestFlags{n: 4, mode: "all", variant: "z"},
			wantErr: true,
		},
		{
			name:    "exact without k",
			flags:   requestFlags{n: 4, mode: "exact", variant: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.build()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("build() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("build() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("build() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequestFlagsBuildValidationError(t *testing.T) {
	flags := requestFlags{n: partition.MaxN + 1, mode: "all", variant: "x"}
	_, err := flags.build()
	if !errors.Is(err, partition.ErrInvalidRequest) {
		t.Errorf("build() error = %v, want partition.ErrInvalidRequest", err)
	}
}
