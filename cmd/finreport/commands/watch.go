// ABOUTME: Watch command generates a report for every document dropped into a directory
// ABOUTME: Debounces write bursts and skips files whose content has not changed
package commands

import (
	"context"
	"errors"
	"time"

	"github.com/harper/finreport/internal/report"
	"github.com/harper/finreport/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchScan     bool
	watchDebounce time.Duration
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Generate reports for documents added to a directory",
		Long: `Generate reports for documents added to a directory.

Every supported file created or modified in the directory gets a
report once it has been quiet for the debounce interval. Hidden files
and unsupported extensions are ignored.`,
		Example: `  finreport watch ~/inbox
  finreport watch --scan --debounce 2s
  FINREPORT_WATCH_DIR=~/inbox finreport watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&watchScan, "scan", false, "Also process files already in the directory")
	cmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a file is processed")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(overrides{}, true)
	if err != nil {
		return err
	}
	defer a.close()

	dir := a.cfg.WatchDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory given and FINREPORT_WATCH_DIR is not set")
	}

	w, err := watch.New(dir, reportHandler(a.svc), watch.Options{Debounce: watchDebounce, Scan: watchScan})
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return w.Run(ctx)
}

// reportHandler generates and stores a report for one watched file
func reportHandler(svc *report.Service) watch.Handler {
	return func(ctx context.Context, path string) error {
		name, text, err := svc.LoadFile(path)
		if err != nil {
			return err
		}
		_, err = svc.GenerateReport(ctx, name, text)
		return err
	}
}
