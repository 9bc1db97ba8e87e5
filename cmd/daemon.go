package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/daemon"
	"github.com/theirongolddev/fburn/internal/logger"
	"github.com/theirongolddev/fburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
	flagDaemonNoMQTT       bool
	flagDaemonEventsLimit  int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch the logs and serve fuel estimates over HTTP, Prometheus and MQTT",
	Long: "Re-reads the vehicle logs every --interval and exposes the current fuel level,\n" +
		"range and economy per vehicle at /v1/status, /v1/stream (SSE) and /metrics.\n" +
		"When [daemon] mqtt_broker is configured, each change is also published to\n" +
		"<mqtt_topic>/<vehicle> as a retained message.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running daemon and its latest estimates",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

var daemonEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent fuel change events from the running daemon",
	RunE:  runDaemonEvents,
}

func init() {
	defaultPID := filepath.Join(pipeline.CacheDir(), "fburnd.pid")
	defaultLog := filepath.Join(pipeline.CacheDir(), "fburnd.log")

	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8797", "HTTP listen address")
	pf.DurationVar(&flagDaemonInterval, "interval", 30*time.Second, "How often to re-read the logs")
	pf.StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	pf.StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file for --detach")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Events kept in memory for /v1/events")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run in the background")
	daemonCmd.Flags().BoolVar(&flagDaemonNoMQTT, "no-mqtt", false, "Do not publish to the configured MQTT broker")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonEventsCmd.Flags().IntVar(&flagDaemonEventsLimit, "limit", 20, "Newest events to show (0 for all)")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd, daemonEventsCmd)
	rootCmd.AddCommand(daemonCmd)
}

func pidFile() daemon.PIDFile {
	return daemon.PIDFile{Path: flagDaemonPIDFile}
}

// daemonClient targets the address the running daemon recorded, falling
// back to --addr.
func daemonClient() *daemon.Client {
	addr := flagDaemonAddr
	if st, err := pidFile().State(); err == nil && st.Addr != "" {
		addr = st.Addr
	}
	return daemon.NewClient(addr)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("invalid daemon launch mode")
	case flagDaemonDetach:
		return startDaemonDetached()
	}
	return runDaemonForeground()
}

func startDaemonDetached() error {
	if err := pidFile().CheckFree(); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(withoutDetach(os.Args[1:]), "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // re-exec of the current binary
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started fuel daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Status: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log:    %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	log := logger.New("daemon")
	pf := pidFile()
	pid := os.Getpid()

	if err := pf.Acquire(daemon.RuntimeState{
		PID:       pid,
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		DataDir:   flagDataDir,
	}); err != nil {
		return err
	}
	defer pf.Release()

	dcfg := daemon.Config{
		DataDir:         flagDataDir,
		VehicleFilter:   flagVehicle,
		UseCache:        !flagNoCache,
		Interval:        flagDaemonInterval,
		Addr:            flagDaemonAddr,
		EventsBuffer:    flagDaemonEventsBuffer,
		RateLimitPerMin: cfg.Daemon.RateLimitPerMin,
		Params:          config.ParamsFunc(cfg),
		Fastag:          fastag(),
	}

	if cfg.Daemon.MQTTBroker != "" && !flagDaemonNoMQTT {
		pub, err := daemon.NewMQTTPublisher(daemon.MQTTConfig{
			Broker:   cfg.Daemon.MQTTBroker,
			Topic:    cfg.Daemon.MQTTTopic,
			ClientID: fmt.Sprintf("fburn-%d", pid),
			Username: cfg.Daemon.MQTTUsername,
			Password: cfg.Daemon.MQTTPassword,
		})
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.Daemon.MQTTBroker).Msg("mqtt disabled")
		} else {
			dcfg.Publisher = pub
		}
	}

	svc, err := daemon.New(dcfg)
	if err != nil {
		return err
	}

	log.Info().
		Str("addr", flagDaemonAddr).
		Str("data_dir", flagDataDir).
		Dur("interval", flagDaemonInterval).
		Bool("mqtt", dcfg.Publisher != nil).
		Msg("daemon configured")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	pf := pidFile()
	pid, err := pf.PID()
	if err != nil {
		fmt.Println("  Daemon: not running")
		return nil
	}
	if !daemon.ProcessAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	client := daemonClient()
	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address:    %s\n", client.BaseURL)

	st, err := client.Status(context.Background())
	if err != nil {
		fmt.Printf("  API: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll:  pending")
	} else {
		fmt.Printf("  Last poll:  %s (%d total)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	fmt.Printf("  Instance:   %s\n", st.InstanceID)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	if len(st.Summary.Vehicles) == 0 {
		return nil
	}

	fmt.Println()
	rows := make([][]string, 0, len(st.Summary.Vehicles))
	for _, v := range st.Summary.Vehicles {
		econ := cli.FormatEfficiency(v.EfficiencyKmpl)
		if v.Fallback {
			econ += "*"
		}
		rows = append(rows, []string{
			v.Vehicle,
			econ,
			cli.FormatLiters(v.FuelLevelL) + " / " + cli.FormatLiters(v.TankCapacityL),
			cli.FormatKm(v.DistanceToEmpty),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Live Estimates",
		Headers: []string{"Vehicle", "Economy", "Fuel", "Range"},
		Rows:    rows,
	}))
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, err := pidFile().Stop(8 * time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("  Stopped fuel daemon (pid %d)\n", pid)
	return nil
}

func runDaemonEvents(_ *cobra.Command, _ []string) error {
	events, err := daemonClient().Events(context.Background())
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	if flagDaemonEventsLimit > 0 && len(events) > flagDaemonEventsLimit {
		events = events[len(events)-flagDaemonEventsLimit:]
	}
	if len(events) == 0 {
		fmt.Println("  No events yet.")
		return nil
	}

	var rows [][]string
	for _, ev := range events {
		at := ev.Timestamp.Local().Format("Jan 02 15:04:05")
		if ev.Type == "snapshot" {
			rows = append(rows, []string{at, "snapshot", fmt.Sprintf("%d vehicles", len(ev.Snapshot.Vehicles)), "", ""})
			continue
		}
		for _, d := range ev.Deltas {
			what := "changed"
			if d.Removed {
				what = "removed"
			}
			rows = append(rows, []string{
				at, d.Vehicle + " " + what,
				fmt.Sprintf("%+d entries", d.Entries),
				fmt.Sprintf("%+.1f L", d.FuelLevelL),
				fmt.Sprintf("%+.0f km", d.DistanceToEmpty),
			})
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Daemon Events",
		Headers: []string{"Time", "Event", "Entries", "Fuel", "Range"},
		Rows:    rows,
	}))
	return nil
}

func withoutDetach(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
