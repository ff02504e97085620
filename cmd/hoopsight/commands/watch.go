package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hoopsight/internal/compute"
	"hoopsight/internal/scheduler"
	"hoopsight/internal/scheduler/jobs"
	"hoopsight/pkg/metrics"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Feature universe watches",
	Long: `Run the scheduled watches over the feature universe.

Registered jobs:
- curated-drift: daily diff of curated group lists against the
  aggregation layer's served universe
- universe-hash: hourly dataset identity check over the full
  enumerated universe

Subcommands:
  start   - start the watch daemon
  list    - list registered jobs
  run     - run one job immediately
  status  - show job execution statistics

Example:
  go run ./cmd/hoopsight watch start
  go run ./cmd/hoopsight watch run curated-drift`,
}

var (
	watchStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the watch daemon",
		RunE:  runWatches,
	}

	watchListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listWatchJobs,
	}

	watchRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchJob,
	}

	watchStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution statistics",
		RunE:  showWatchStatus,
	}
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.AddCommand(watchStartCmd)
	watchCmd.AddCommand(watchListCmd)
	watchCmd.AddCommand(watchRunCmd)
	watchCmd.AddCommand(watchStatusCmd)
}

func runWatches(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Hoopsight Universe Watches ===")

	sched, cleanup, err := initWatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("init watches: %w", err)
	}
	defer cleanup()

	sched.Start()

	fmt.Println("\n✅ Watches started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down watches...")
	sched.Stop()
	fmt.Println("Watches stopped")

	return nil
}

func listWatchJobs(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initWatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("init watches: %w", err)
	}
	defer cleanup()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runWatchJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, cleanup, err := initWatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("init watches: %w", err)
	}
	defer cleanup()

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showWatchStatus(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := initWatches(cmd.Context())
	if err != nil {
		return fmt.Errorf("init watches: %w", err)
	}
	defer cleanup()

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func initWatches(ctx context.Context) (*scheduler.Scheduler, func(), error) {
	rt, err := initRuntime(ctx)
	if err != nil {
		return nil, nil, err
	}

	// The drift job only consults the aggregator's served universe, which
	// is static, so no player source is needed here.
	aggregator := compute.NewPlayerAggregator(nil, rt.log.Zerolog())

	sched := scheduler.New(rt.log)
	if err := sched.AddJob(jobs.NewCuratedDriftJob(rt.registry, aggregator, rt.log, metrics.New("hoopsight"), "")); err != nil {
		rt.Close()
		return nil, nil, err
	}
	if err := sched.AddJob(jobs.NewUniverseHashJob(rt.enum, rt.log, "")); err != nil {
		rt.Close()
		return nil, nil, err
	}

	return sched, rt.Close, nil
}
