// Command shmwriter is a demo telemetry emitter: it opens the shared-memory
// log and stamps/scopes/traces at a configurable rate until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/bonexgoo/shmlog/shmlog"
)

func main() {
	var (
		filePath string
		interval time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "shmwriter",
		Short: "Emit shmlog telemetry events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewLogfmtLogger(os.Stdout)
			registerer := prometheus.NewRegistry()
			metrics := shmlog.NewMetrics(registerer)

			if err := shmlog.Init(
				shmlog.WithFilePath(filePath),
				shmlog.WithLogger(logger),
				shmlog.WithMetrics(metrics),
			); err != nil {
				level.Error(logger).Log("err", err)
				return err
			}
			defer shmlog.Shutdown()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			level.Info(logger).Log("msg", "writer started", "file", filePath, "interval", interval)

			var tick int64
			for {
				select {
				case <-sigs:
					level.Info(logger).Log("msg", "writer exiting")
					return nil
				case <-ticker.C:
					tick++
					scope := shmlog.Scope("heartbeat")
					shmlog.Stamp("tick")
					shmlog.AddValue("ticks", 1)
					shmlog.SetValue("last_tick", tick)
					shmlog.Trace(shmlog.InfoLevel, "heartbeat tick=%d", tick)
					scope.End()
				}
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&filePath, "file", shmlog.DefaultFileName, "path to the shared-memory log file")
	rootCmd.Flags().DurationVar(&interval, "interval", time.Second, "event emission interval")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
