package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/fburn/internal/cli"
	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/logbook"
	"github.com/theirongolddev/fburn/internal/logger"
	"github.com/theirongolddev/fburn/internal/model"
	"github.com/theirongolddev/fburn/internal/pipeline"
	"github.com/theirongolddev/fburn/internal/source"
	"github.com/theirongolddev/fburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDays    int
	flagVehicle string
	flagNoCache bool
	flagDataDir string
	flagQuiet   bool
)

// cfg is loaded once per invocation in PersistentPreRunE.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "fburn",
	Short: "Vehicle fuel log metrics CLI",
	Long:  "Track fill-ups, tolls and service costs: fuel economy, fuel remaining, range and cost per km.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadDotEnv(config.Dir()); err != nil {
			log := logger.New("config")
			log.Warn().Err(err).Msg("ignoring .env")
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		cli.Currency = cfg.General.Currency

		if !cmd.Flags().Changed("data-dir") {
			flagDataDir = config.DataDir(cfg)
		}
		if !cmd.Flags().Changed("days") && cfg.General.DefaultDays > 0 {
			flagDays = cfg.General.DefaultDays
		}
		return nil
	},
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 30, "Time window in days for costs and reports")
	rootCmd.PersistentFlags().StringVarP(&flagVehicle, "vehicle", "v", "", "Filter to vehicle (substring match)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory of vehicle logs (default ~/.fburn)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadData is the shared data loading path used by all read commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	log := logger.New("load")

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			log.Warn().Err(err).Msg("cache unavailable, doing full parse")
		} else {
			defer cache.Close()

			cr, err := pipeline.LoadWithCache(flagDataDir, cache, progressFn)
			if err != nil {
				log.Warn().Err(err).Msg("cache error, falling back to full parse")
			} else {
				if !flagQuiet && cr.Reparsed > 0 {
					fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed (%d vehicles)    \n",
						cr.CacheHits, cr.Reparsed, cr.VehicleCount)
				}
				reportLoadErrors(&cr.LoadResult)
				return &cr.LoadResult, nil
			}
		}
	}

	result, err := pipeline.Load(flagDataDir, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s entries across %d vehicles    \n",
			cli.FormatNumber(int64(len(result.Entries))), result.VehicleCount)
	}
	reportLoadErrors(result)
	return result, nil
}

func reportLoadErrors(r *pipeline.LoadResult) {
	if flagQuiet {
		return
	}
	if r.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d log files could not be read\n", r.FileErrors)
	}
	if r.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d malformed rows skipped\n", r.ParseErrors)
	}
}

// applyFilters narrows entries to the --vehicle filter and returns the
// --days window as [since, until). --days 0 starts at the earliest entry.
func applyFilters(entries []model.Entry) ([]model.Entry, time.Time, time.Time) {
	filtered := entries
	if flagVehicle != "" {
		filtered = pipeline.FilterByVehicle(filtered, flagVehicle)
	}
	since, until := pipeline.Window(filtered, flagDays, time.Now())
	return filtered, since, until
}

func fastag() pipeline.Fastag {
	return pipeline.Fastag{TotalTrips: cfg.Fastag.TotalTrips, Cost: cfg.Fastag.Cost}
}

// openVehicleLog opens the log a write command operates on. --vehicle is
// matched against the data dir the way read commands filter; with create
// set, a name that matches nothing starts a new log.
func openVehicleLog(create bool) (*logbook.Book, error) {
	files, err := source.ScanDir(flagDataDir)
	if err != nil {
		return nil, err
	}
	df, err := source.ResolveVehicle(files, flagVehicle)
	switch {
	case errors.Is(err, source.ErrNoVehicle) && flagVehicle == "":
		return nil, fmt.Errorf("no vehicle logs in %s; pass --vehicle to create one", flagDataDir)
	case errors.Is(err, source.ErrNoVehicle) && create:
		df = source.DiscoveredFile{Path: source.VehiclePath(flagDataDir, flagVehicle), Vehicle: flagVehicle}
	case errors.Is(err, source.ErrNoVehicle):
		return nil, fmt.Errorf("%w for %q in %s", err, flagVehicle, flagDataDir)
	case err != nil:
		return nil, fmt.Errorf("%w; pass a more specific --vehicle", err)
	}

	book, skipped, err := logbook.Open(df.Path, df.Vehicle)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log := logger.New("logbook")
		log.Warn().Str("file", df.Path).Int("rows", skipped).Msg("dropped malformed rows")
	}
	return book, nil
}

func noEntries() {
	fmt.Println("\n  No fuel entries found.")
	fmt.Printf("  Record one with `fburn add` (logs live in %s).\n", flagDataDir)
}
