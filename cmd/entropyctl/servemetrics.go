package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/amenti-labs/openentropy-sub002/metrics"
)

func newServeMetricsCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Expose the pool's Prometheus collector on an HTTP /metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildPool()
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler(p))

			fmt.Fprintf(cmd.OutOrStdout(), "serving metrics on %s/metrics\n", addr)
			return http.ListenAndServe(addr, mux)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9180", "listen address for the metrics HTTP server")
	return cmd
}
