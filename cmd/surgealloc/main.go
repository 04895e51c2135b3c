package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/vsinha/surgealloc/pkg/config"
	"github.com/vsinha/surgealloc/pkg/infrastructure/logging"
	"github.com/vsinha/surgealloc/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		configFile    = flag.String("config", "", "Path to TOML configuration file")
		dataDir       = flag.String("data-dir", "", "Directory containing snapshot and forecast CSV files")
		inventoryFile = flag.String("inventory", "", "Path to supply inventory CSV file")
		staffingFile  = flag.String("staffing", "", "Path to staff availability CSV file")
		forecastDir   = flag.String("forecast-dir", "", "Directory containing <model>_forecast_7day.csv files")
		conditionName = flag.String("condition", "auto", "Surge condition: auto, respiratory, burn, dengue, general")
		department    = flag.String("department", "", "Target department (default from config)")
		predicted     = flag.Int("predicted", commands.Unset, "Predicted patient count")
		confidence    = flag.Float64("confidence", commands.Unset, "Forecast confidence between 0 and 1")
		date          = flag.String("date", "", "Plan date YYYY-MM-DD (default: today)")
		horizonDays   = flag.Int("horizon-days", 0, "Days until the surge peak")
		aqi           = flag.Float64("aqi", 0, "Air quality index for condition detection")
		event         = flag.String("event", "", "Local event for condition detection")
		season        = flag.String("season", "", "Season for condition detection")
		disease       = flag.String("disease", "", "Circulating disease for condition detection")
		epidemicAlert = flag.Int("epidemic-alert", 0, "Epidemic alert level for condition detection")
		outputDir     = flag.String("output", "", "Output directory for results (optional)")
		format        = flag.String("format", "text", "Output format: text, json, csv")
		verbose       = flag.BoolP("verbose", "v", false, "Enable verbose output")
		help          = flag.BoolP("help", "h", false, "Show help message")
	)

	flag.Parse()

	app, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := app.Logging.Level
	if *verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(level, app.Logging.Format, "surgealloc")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create command configuration
	cfg := commands.Config{
		DataDir:       *dataDir,
		InventoryFile: *inventoryFile,
		StaffingFile:  *staffingFile,
		ForecastDir:   *forecastDir,
		Condition:     *conditionName,
		Department:    *department,
		Predicted:     *predicted,
		Confidence:    *confidence,
		Date:          *date,
		HorizonDays:   *horizonDays,
		AQI:           *aqi,
		Event:         *event,
		Season:        *season,
		Disease:       *disease,
		EpidemicAlert: *epidemicAlert,
		OutputDir:     *outputDir,
		Format:        *format,
		Verbose:       *verbose,
		Help:          *help,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create and execute command
	cmd := commands.NewAllocateCommand(cfg, app, logger)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}
