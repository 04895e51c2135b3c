package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/surgealloc/pkg/application/services/condition"
	"github.com/vsinha/surgealloc/pkg/application/services/forecast"
	"github.com/vsinha/surgealloc/pkg/application/services/inventory"
	"github.com/vsinha/surgealloc/pkg/application/services/orchestration"
	"github.com/vsinha/surgealloc/pkg/application/services/staffing"
	"github.com/vsinha/surgealloc/pkg/config"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/infrastructure/events"
	"github.com/vsinha/surgealloc/pkg/infrastructure/logging"
	"github.com/vsinha/surgealloc/pkg/infrastructure/metrics"
	"github.com/vsinha/surgealloc/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/surgealloc/pkg/infrastructure/repositories/mappingfile"
	"github.com/vsinha/surgealloc/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/surgealloc/pkg/interfaces/cli/output"
)

// Unset marks numeric flags the user did not supply
const Unset = -1

// Config holds configuration for the allocate command
type Config struct {
	DataDir       string
	InventoryFile string
	StaffingFile  string
	ForecastDir   string
	Condition     string
	Department    string
	Predicted     int
	Confidence    float64
	Date          string
	HorizonDays   int
	AQI           float64
	Event         string
	Season        string
	Disease       string
	EpidemicAlert int
	OutputDir     string
	Format        string
	Verbose       bool
	Help          bool
}

// AllocateCommand builds one allocation plan from snapshots and a forecast
type AllocateCommand struct {
	config Config
	app    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// NewAllocateCommand creates a new allocate command with the given configuration
func NewAllocateCommand(cfg Config, app *config.Config, logger *zap.Logger) *AllocateCommand {
	if app == nil {
		app = config.Default()
	}
	return &AllocateCommand{
		config: cfg,
		app:    app,
		logger: logging.OrNop(logger),
		out:    os.Stdout,
	}
}

// SetOutput redirects console output
func (c *AllocateCommand) SetOutput(w io.Writer) {
	c.out = w
}

// Execute runs the allocate command
func (c *AllocateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	planDate, err := c.planDate()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
	}

	// Forecast and condition
	predicted, confidence, horizon, err := c.resolveForecast(files["Forecast"], planDate)
	if err != nil {
		return err
	}

	conditionType, err := c.resolveCondition()
	if err != nil {
		return err
	}

	department := c.config.Department
	if department == "" {
		department = c.app.Allocation.DefaultDepartment
	}

	// Knowledge base
	mappings, err := c.loadMappings()
	if err != nil {
		return err
	}

	// Snapshots
	loader := csv.NewLoader()
	inventorySnapshot := entities.EmptyInventorySnapshot(planDate)
	if files["Inventory"] != "" {
		if inventorySnapshot, err = loader.LoadInventory(files["Inventory"]); err != nil {
			return fmt.Errorf("error loading inventory: %w", err)
		}
	}
	staffingSnapshot := entities.EmptyStaffingSnapshot(planDate)
	if files["Staffing"] != "" {
		if staffingSnapshot, err = loader.LoadStaffing(files["Staffing"]); err != nil {
			return fmt.Errorf("error loading staffing: %w", err)
		}
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Data loaded successfully:\n")
		fmt.Fprintf(c.out, "  Inventory SKUs: %d\n", inventorySnapshot.Len())
		fmt.Fprintf(c.out, "  Roster Rows: %d\n", staffingSnapshot.Len())
		fmt.Fprintf(c.out, "  Condition: %s\n", conditionType)
		fmt.Fprintf(c.out, "  Predicted Patients: %d (confidence %.2f)\n", predicted, confidence)
		fmt.Fprintln(c.out)
	}

	// Build the plan
	orchestrator := c.newOrchestrator(mappings)

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🔄 Building allocation plan...")
	}

	startTime := time.Now()
	plan, err := orchestrator.BuildPlan(ctx, orchestration.PlanRequest{
		PredictedPatients:  predicted,
		Condition:          conditionType,
		TargetDepartment:   department,
		Inventory:          inventorySnapshot,
		Staffing:           staffingSnapshot,
		ForecastConfidence: confidence,
		Date:               planDate,
		HorizonDays:        horizon,
	})
	buildTime := time.Since(startTime)
	if err != nil {
		c.logger.Error("allocation plan failed", zap.Error(err))
		return fmt.Errorf("error building allocation plan: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Plan %s built in %v\n\n", plan.ID, buildTime)
	}

	c.publish(ctx, plan)

	if err := c.recordMetrics(plan); err != nil {
		return err
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		BuildTime: buildTime,
		Writer:    c.out,
	}

	if err := output.Generate(plan, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🏁 Allocation complete!")
	}

	return nil
}

// validateInputs validates the command configuration
func (c *AllocateCommand) validateInputs() error {
	switch c.config.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unsupported format %q, expected text, json or csv", c.config.Format)
	}
	if c.config.Predicted == Unset && c.config.ForecastDir == "" && c.config.DataDir == "" {
		return fmt.Errorf("must specify --predicted, --forecast-dir or --data-dir")
	}
	if c.config.Predicted < Unset {
		return fmt.Errorf("--predicted cannot be negative, got %d", c.config.Predicted)
	}
	if c.config.Confidence != Unset && (c.config.Confidence < 0 || c.config.Confidence > 1) {
		return fmt.Errorf("--confidence must be between 0 and 1, got %g", c.config.Confidence)
	}
	if c.config.HorizonDays < 0 {
		return fmt.Errorf("--horizon-days cannot be negative, got %d", c.config.HorizonDays)
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use. A data directory
// supplies any file not given explicitly.
func (c *AllocateCommand) resolveInputFiles() (map[string]string, error) {
	files := map[string]string{
		"Inventory": c.config.InventoryFile,
		"Staffing":  c.config.StaffingFile,
		"Forecast":  c.config.ForecastDir,
	}

	if c.config.DataDir != "" {
		defaults := map[string]string{
			"Inventory": filepath.Join(c.config.DataDir, "supply_inventory.csv"),
			"Staffing":  filepath.Join(c.config.DataDir, "staff_availability.csv"),
			"Forecast":  c.config.DataDir,
		}
		for name, path := range defaults {
			if files[name] == "" {
				files[name] = path
			}
		}
	}

	for name, path := range files {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

func (c *AllocateCommand) planDate() (time.Time, error) {
	if c.config.Date == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse("2006-01-02", c.config.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", c.config.Date, err)
	}
	return date, nil
}

// resolveForecast returns predicted patients, confidence and lead-time horizon.
// Explicit flags win over the forecast consensus.
func (c *AllocateCommand) resolveForecast(dir string, planDate time.Time) (int, float64, int, error) {
	predicted := c.config.Predicted
	confidence := c.config.Confidence
	horizon := c.config.HorizonDays

	if dir != "" && (predicted == Unset || confidence == Unset || horizon == 0) {
		series, err := csv.NewLoader().LoadForecastDir(dir, forecast.DefaultModels)
		if err != nil {
			if predicted == Unset {
				return 0, 0, 0, fmt.Errorf("error loading forecast: %w", err)
			}
			c.logger.Warn("forecast unavailable, using explicit prediction", zap.Error(err))
		} else {
			consensus, err := forecast.BuildConsensus(series)
			if err != nil {
				return 0, 0, 0, fmt.Errorf("error building forecast consensus: %w", err)
			}
			if predicted == Unset {
				predicted = consensus.PredictedPatients()
			}
			if confidence == Unset {
				confidence = consensus.Confidence
			}
			if horizon == 0 {
				horizon = max(1, consensus.DaysUntilPeak(planDate))
			}

			peak := consensus.Peak()
			c.logger.Info("forecast consensus",
				zap.Strings("models", consensus.Models),
				zap.String("peak_date", peak.Date.Format("2006-01-02")),
				zap.Float64("peak_forecast", peak.Forecast),
				zap.Float64("confidence", consensus.Confidence))
		}
	}

	if predicted == Unset {
		return 0, 0, 0, fmt.Errorf("no predicted patient count available")
	}
	if confidence == Unset {
		confidence = 1
	}
	return predicted, confidence, horizon, nil
}

// resolveCondition parses --condition, detecting it from context signals for "auto"
func (c *AllocateCommand) resolveCondition() (entities.ConditionType, error) {
	if c.config.Condition == "" || c.config.Condition == "auto" {
		detected := condition.NewDetector().Detect(condition.Signals{
			AQI:           c.config.AQI,
			EventType:     c.config.Event,
			Season:        c.config.Season,
			EpidemicAlert: c.config.EpidemicAlert,
			Disease:       c.config.Disease,
		})
		c.logger.Info("condition detected", zap.String("condition", string(detected)))
		return detected, nil
	}

	parsed, err := entities.ParseConditionType(c.config.Condition)
	if err != nil {
		if c.app.Allocation.AllowGeneralFallback && errors.Is(err, entities.ErrUnknownCondition) {
			c.logger.Warn("unknown condition, falling back to general surge",
				zap.String("condition", c.config.Condition))
			return entities.GeneralSurge, nil
		}
		return "", err
	}
	return parsed, nil
}

func (c *AllocateCommand) loadMappings() (*memory.ResourceMappingRepository, error) {
	profiles := memory.DefaultProfiles()
	if path := c.app.KnowledgeBase.Path; path != "" {
		overrides, err := mappingfile.Load(path)
		if err != nil {
			return nil, err
		}
		profiles = mappingfile.Merge(profiles, overrides)
		if c.config.Verbose {
			fmt.Fprintf(c.out, "📚 Knowledge base overrides loaded from %s (%d conditions)\n", path, len(overrides))
		}
	}

	opts := []memory.Option{memory.WithLogger(c.logger)}
	if c.app.Allocation.AllowGeneralFallback {
		opts = append(opts, memory.WithGeneralFallback())
	}
	return memory.NewResourceMappingRepository(profiles, opts...)
}

func (c *AllocateCommand) newOrchestrator(mappings *memory.ResourceMappingRepository) *orchestration.AllocationOrchestrator {
	urgency := inventory.UrgencyPolicy{
		CriticalMaxTier:     entities.PriorityTier(c.app.Urgency.CriticalMaxTier),
		CriticalMaxLeadDays: c.app.Urgency.CriticalMaxLeadDays,
		HighMaxTier:         entities.PriorityTier(c.app.Urgency.HighMaxTier),
	}
	analyzer := inventory.NewGapAnalyzer(urgency, entities.Quantity(c.app.Allocation.MissingStockDefault), c.logger)

	optimizer := staffing.NewOptimizer(staffing.Policy{
		Departments:       c.app.Staffing.DepartmentList(),
		DefaultPriority:   c.app.Staffing.DefaultDepartmentPriority,
		MinRetained:       entities.Quantity(c.app.Staffing.MinRetainedPerDepartment),
		OnCallPool:        c.app.Staffing.OnCallPoolSizes(),
		DefaultOnCallPool: entities.Quantity(c.app.Staffing.DefaultOnCallPool),
	}, c.logger)

	return orchestration.NewAllocationOrchestrator(mappings, analyzer, optimizer, orchestration.Settings{
		SafetyBuffer:           c.app.Allocation.SafetyBuffer(),
		StaffGapThreshold:      decimal.NewFromFloat(c.app.Allocation.StaffGapThreshold),
		LowConfidenceThreshold: c.app.Allocation.LowConfidenceThreshold,
	}, c.logger)
}

// publish sends plan events to the configured backend. Failures are logged;
// the plan itself is still returned to the user.
func (c *AllocateCommand) publish(ctx context.Context, plan *entities.AllocationPlan) {
	var publisher events.Publisher
	switch c.app.Events.Backend {
	case config.EventsMemory:
		publisher = events.NewInMemoryEventStore(c.logger)
	case config.EventsRedis:
		client := redis.NewClient(&redis.Options{Addr: c.app.Events.RedisAddr})
		redisPublisher := events.NewRedisStreamPublisher(client, c.app.Events.RedisStream, 0, c.logger)
		defer redisPublisher.Close()
		publisher = redisPublisher
	default:
		return
	}

	n, err := events.PublishPlan(ctx, publisher, plan)
	if err != nil {
		c.logger.Error("failed to publish plan events",
			zap.String("backend", string(c.app.Events.Backend)),
			zap.Int("published", n),
			zap.Error(err))
		return
	}
	if c.config.Verbose {
		fmt.Fprintf(c.out, "📡 Published %d events to %s\n", n, c.app.Events.Backend)
	}
}

func (c *AllocateCommand) recordMetrics(plan *entities.AllocationPlan) error {
	if c.app.Metrics.TextfilePath == "" {
		return nil
	}
	recorder := metrics.NewRecorder()
	recorder.Record(plan)
	return recorder.WriteTextfile(c.app.Metrics.TextfilePath)
}

// printHeader prints the command header information
func (c *AllocateCommand) printHeader(files map[string]string) {
	fmt.Fprintf(c.out, "🚀 Surge Allocation CLI\n")
	fmt.Fprintf(c.out, "Input files:\n")
	for _, name := range []string{"Inventory", "Staffing", "Forecast"} {
		path := files[name]
		if path == "" {
			path = "(none)"
		}
		fmt.Fprintf(c.out, "  %s: %s\n", name, path)
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *AllocateCommand) showHelp() {
	fmt.Fprintf(c.out, `Surge Allocation CLI - hospital resource allocation for predicted patient surges

USAGE:
    surgealloc --data-dir <directory> [options]
    surgealloc --predicted <n> --condition <type> [options]

OPTIONS:
    --config <file>          TOML configuration file
    --data-dir <dir>         Directory with supply_inventory.csv, staff_availability.csv and forecasts
    --inventory <file>       Supply inventory CSV
    --staffing <file>        Staff availability CSV
    --forecast-dir <dir>     Directory with <model>_forecast_7day.csv files
    --condition <type>       auto, respiratory, burn, dengue, general or a canonical name (default: auto)
    --department <name>      Target department (default from config)
    --predicted <n>          Predicted patient count (overrides forecast)
    --confidence <f>         Forecast confidence 0..1 (overrides forecast)
    --date <YYYY-MM-DD>      Plan date (default: today)
    --horizon-days <n>       Days until the surge peak, enables lead-time advisories
    --aqi <n>                Air quality index for condition detection
    --event <name>           Local event (festival, diwali, holi) for condition detection
    --season <name>          Season for condition detection
    --disease <name>         Circulating disease for condition detection
    --epidemic-alert <n>     Epidemic alert level for condition detection
    --output <dir>           Output directory for results (optional)
    --format <fmt>           Output format: text, json, csv (default: text)
    --verbose                Enable verbose output
    --help                   Show this help message

CSV FILE FORMATS:

supply_inventory.csv:
    snapshot_date,item_code,item_name,qty_on_hand,committed_incoming,vendor_id
    2025-10-20,MED-NEB-001,Nebulizer Masks,50,0,MEDEQUIP_A

staff_availability.csv:
    role,department_id,available_count
    respiratory_therapist,Emergency,5

lightgbm_forecast_7day.csv (also xgboost, random_forest):
    date,forecast,lower_ci,upper_ci
    2025-10-21,142.5,120.1,165.0

EXAMPLES:
    # Detect the condition from air quality and use the forecast consensus
    surgealloc --data-dir data/ --aqi 320 --verbose

    # Explicit scenario, JSON document on stdout
    surgealloc --predicted 150 --condition respiratory --inventory inv.csv --staffing staff.csv --format json

    # Write CSV action lists
    surgealloc --data-dir data/ --condition burn --format csv --output results/
`)
}
