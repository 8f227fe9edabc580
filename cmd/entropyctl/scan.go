package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List sources the pool was able to detect on this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPool()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tPHYSICS\tCOMPOSITE")
			for _, info := range p.SourceInfos() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", info.Name, info.Category, info.Physics, info.Composite)
			}
			return tw.Flush()
		},
	}
}
