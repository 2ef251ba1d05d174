// Command shmreader drains a shmlog file and prints each record it decodes.
// It polls with a backoff on Unreaded, matching the original companion
// viewer's read loop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/bonexgoo/shmlog/shmlog"
)

func main() {
	var (
		filePath    string
		pollBackoff time.Duration
		maxBackoff  time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "shmreader",
		Short: "Drain and print events from a shmlog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewLogfmtLogger(os.Stdout)

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

			backoff := pollBackoff
			for {
				select {
				case <-sigs:
					level.Info(logger).Log("msg", "reader exiting")
					return nil
				default:
				}

				result, err := shmlog.ReadOnce(printRecord, shmlog.WithFilePath(filePath))
				if err != nil {
					level.Error(logger).Log("err", err)
					return err
				}

				switch result {
				case shmlog.Readed:
					backoff = pollBackoff
				case shmlog.Unreaded:
					time.Sleep(backoff)
					if backoff *= 2; backoff > maxBackoff {
						backoff = maxBackoff
					}
				case shmlog.ExitProgram:
					level.Info(logger).Log("msg", "writer exited, draining complete")
					return nil
				case shmlog.LogNotFound:
					level.Warn(logger).Log("msg", "log file not found, retrying", "file", filePath)
					time.Sleep(maxBackoff)
				}
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVar(&filePath, "file", shmlog.DefaultFileName, "path to the shared-memory log file")
	rootCmd.Flags().DurationVar(&pollBackoff, "poll-backoff", 5*time.Millisecond, "initial backoff between polls when no data is available")
	rootCmd.Flags().DurationVar(&maxBackoff, "max-backoff", 500*time.Millisecond, "maximum backoff between polls")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printRecord(funcID shmlog.FuncID, payload []byte) {
	switch funcID {
	case shmlog.ScopeBeginST, shmlog.ScopeEndST, shmlog.StampST:
		name, rest := shmlog.ParseString(payload)
		ts, _ := shmlog.ParseInt64(rest)
		fmt.Printf("%s name=%q t=%d\n", funcID, name, ts)
	case shmlog.ValidST:
		msg, rest := shmlog.ParseString(payload)
		key, _ := shmlog.ParseInt32(rest)
		fmt.Printf("%s name=%q key=%d\n", funcID, msg, key)
	case shmlog.TraceST:
		msg, rest := shmlog.ParseString(payload)
		lvl, _ := shmlog.ParseInt32(rest)
		fmt.Printf("%s level=%s msg=%q\n", funcID, shmlog.Level(lvl), msg)
	case shmlog.SetValueST, shmlog.AddValueST:
		name, rest := shmlog.ParseString(payload)
		v, _ := shmlog.ParseInt32(rest)
		fmt.Printf("%s name=%q value=%d\n", funcID, name, v)
	case shmlog.SetValueSS:
		name, rest := shmlog.ParseString(payload)
		value, _ := shmlog.ParseString(rest)
		fmt.Printf("%s name=%q value=%q\n", funcID, name, value)
	default:
		fmt.Printf("%s payload=%d bytes\n", funcID, len(payload))
	}
}
