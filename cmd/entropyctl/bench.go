package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amenti-labs/openentropy-sub002/condition"
	"github.com/amenti-labs/openentropy-sub002/quality"
	"github.com/amenti-labs/openentropy-sub002/report"
)

func newBenchCmd() *cobra.Command {
	var (
		n    int
		mode string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Collect a sample through a conditioning mode and print a quality report",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPool()
			if err != nil {
				return err
			}

			p.CollectAll()
			data, err := p.GetBytes(n, condition.ParseMode(mode))
			if err != nil {
				return fmt.Errorf("get bytes: %w", err)
			}

			r := quality.Evaluate(data)
			out, err := report.MarshalQuality(len(data), r)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().IntVarP(&n, "bytes", "n", 4096, "number of output bytes to draw")
	cmd.Flags().StringVarP(&mode, "mode", "m", "sha256", "conditioning mode: raw, vonneumann, or sha256")
	return cmd
}
