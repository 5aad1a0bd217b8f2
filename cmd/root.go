package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	report "github.com/clustersim/clustersim/sim/report"

	sim "github.com/clustersim/clustersim/sim"
)

var (
	hostCatalogPath string // path to the host catalog YAML
	queueDefsPath   string // path to the queue definitions YAML
	scenarioPath    string // path to the scenario CSV
	logDir          string // directory report sinks write into
	logLevel        string // log verbosity level

	dispatchFrequency   int64   // ms between dispatch passes
	loggingFrequency    int64   // ms between periodic LOG events
	countingFrequency   int64   // ms between periodic COUNT events
	runtimeMultiplier   float64 // global scale applied to every job's computed runtime
	useOnlyDefaultQueue bool    // route every submission to the first queue
	consoleOutput       bool    // mirror log rows to stdout
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "clustersim",
	Short: "Discrete-event simulator for cluster workload dispatch",
}

// runCmd executes one simulation from a host catalog, queue definitions,
// and a scenario trace, writing its outputs under logDir.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cluster simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		catalog, err := loadHostCatalog(hostCatalogPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defs, err := loadQueueDefinitions(queueDefsPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		entries, err := loadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := validateScenarioQueues(entries, defs, useOnlyDefaultQueue); err != nil {
			logrus.Fatalf("%v", err)
		}

		cluster, err := buildCluster(catalog)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		queues, err := buildQueues(defs, cluster)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if err := os.MkdirAll(logDir, 0755); err != nil {
			logrus.Fatalf("creating log directory %s: %v", logDir, err)
		}
		sinks := report.NewSinks(logDir, report.WithConsole(consoleOutput))
		defer sinks.Close()

		cfg := sim.SimConfig{
			DispatchFrequency:   dispatchFrequency,
			LoggingFrequency:    loggingFrequency,
			CountingFrequency:   countingFrequency,
			RuntimeMultiplier:   runtimeMultiplier,
			UseOnlyDefaultQueue: useOnlyDefaultQueue,
		}

		s := sim.NewSimulation(cluster, queues, cfg, sinks)
		for _, entry := range entries {
			s.Submit(entry)
		}

		logrus.Infof("starting simulation: %d hosts, %d queues, %d scenario entries", len(cluster.Hosts()), len(queues), len(entries))

		if err := s.Run(); err != nil {
			logrus.Fatalf("%v", err)
		}
		s.Metrics().Print()
		logrus.Info("simulation complete")
	},
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&hostCatalogPath, "hosts", "", "Path to the host catalog YAML")
	runCmd.Flags().StringVar(&queueDefsPath, "queues", "", "Path to the queue definitions YAML")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario CSV")
	runCmd.Flags().StringVar(&logDir, "log-dir", "./logs", "Directory to write report output files into")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().Int64Var(&dispatchFrequency, "dispatch-frequency", sim.DefaultDispatchFrequency, "ms between dispatch passes")
	runCmd.Flags().Int64Var(&loggingFrequency, "logging-frequency", sim.DefaultLoggingFrequency, "ms between periodic log events")
	runCmd.Flags().Int64Var(&countingFrequency, "counting-frequency", sim.DefaultCountingFrequency, "ms between periodic counting events")
	runCmd.Flags().Float64Var(&runtimeMultiplier, "runtime-multiplier", sim.DefaultRuntimeMultiplier, "global scale applied to every job's computed runtime")
	runCmd.Flags().BoolVar(&useOnlyDefaultQueue, "use-only-default-queue", false, "route every submission to the first queue regardless of its entry")
	runCmd.Flags().BoolVar(&consoleOutput, "console", true, "mirror log rows to stdout")

	_ = runCmd.MarkFlagRequired("hosts")
	_ = runCmd.MarkFlagRequired("queues")
	_ = runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
