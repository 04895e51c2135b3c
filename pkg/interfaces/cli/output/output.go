package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/surgealloc/pkg/application/dto"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	BuildTime time.Duration
	// Writer receives stdout output; nil means os.Stdout
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate creates output in the specified format
func Generate(plan *entities.AllocationPlan, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(plan, config)
	case "json":
		return generateJSONOutput(plan, config)
	case "csv":
		return generateCSVOutput(plan, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(plan *entities.AllocationPlan, config Config) error {
	w := config.writer()
	requested := plan.StaffRequested()

	fmt.Fprintf(w, "🏥 Allocation Plan %s\n", plan.Date.Format("2006-01-02"))
	fmt.Fprintf(w, "==========================\n\n")

	fmt.Fprintf(w, "Surge Context: %s\n", plan.Condition)
	fmt.Fprintf(w, "Target Department: %s\n", plan.TargetDepartment)
	fmt.Fprintf(w, "Predicted Patients: %d\n", plan.PredictedPatients)
	fmt.Fprintf(w, "Forecast Confidence: %.1f%%\n", plan.ForecastConfidence*100)
	fmt.Fprintf(w, "Purchase Orders: %d (%d units)\n", len(plan.PurchaseOrders), plan.TotalUnitsOrdered())
	fmt.Fprintf(w, "Staff Reallocated: %d\n", requested[entities.Reallocate])
	fmt.Fprintf(w, "On-Call Activated: %d\n", requested[entities.OnCall])
	fmt.Fprintf(w, "Agency Requested: %d\n", requested[entities.AgencyRequest])
	if config.BuildTime > 0 {
		fmt.Fprintf(w, "Build Time: %v\n", config.BuildTime)
	}
	fmt.Fprintln(w)

	if len(plan.PurchaseOrders) > 0 {
		fmt.Fprintf(w, "📦 Purchase Orders:\n")
		fmt.Fprintf(w, "%-14s %-40s %-8s %-8s %-8s %-9s %-15s\n",
			"SKU", "Item", "Stock", "Demand", "Order", "Priority", "Vendor")
		fmt.Fprintf(w, "%-14s %-40s %-8s %-8s %-8s %-9s %-15s\n",
			"--------------", "----------------------------------------", "--------", "--------", "--------", "---------", "---------------")

		for _, po := range plan.PurchaseOrders {
			fmt.Fprintf(w, "%-14s %-40s %-8d %-8d %-8d %-9s %-15s\n",
				po.SKU, truncate(po.ItemName, 40), po.CurrentStock, po.PredictedDemand,
				po.Quantity, po.Urgency, po.VendorID)
		}
		fmt.Fprintln(w)
	}

	if len(plan.StaffingDirectives) > 0 {
		fmt.Fprintf(w, "👩‍⚕️ Staffing Directives:\n")
		fmt.Fprintf(w, "%-24s %-15s %-12s %-12s %-8s %-9s\n",
			"Role", "Action", "From", "To", "Count", "Roster")
		fmt.Fprintf(w, "%-24s %-15s %-12s %-12s %-8s %-9s\n",
			"------------------------", "---------------", "------------", "------------", "--------", "---------")

		for _, d := range plan.StaffingDirectives {
			from := d.SourceDepartment
			if from == "" {
				from = "-"
			}
			fmt.Fprintf(w, "%-24s %-15s %-12s %-12s %-8d %-9s\n",
				d.Role, d.Action, from, d.TargetDepartment, d.Count,
				fmt.Sprintf("%d/%d", d.CurrentRosterCount, d.RequiredCount))
		}
		fmt.Fprintln(w)
	}

	if len(plan.Advisories) > 0 {
		fmt.Fprintf(w, "📢 Operational Advisories:\n")
		for i, advisory := range plan.Advisories {
			fmt.Fprintf(w, "  %d. %s\n", i+1, advisory)
		}
		fmt.Fprintln(w)
	}

	if len(plan.Warnings) > 0 {
		fmt.Fprintf(w, "⚠️  Data Gaps:\n")
		for _, warning := range plan.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	if config.OutputDir != "" {
		// text mode also saves the JSON document
		return writeJSONFile(plan, config)
	}
	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(plan *entities.AllocationPlan, config Config) error {
	if config.OutputDir == "" {
		return dto.FromPlan(plan).WriteJSON(config.writer())
	}
	return writeJSONFile(plan, config)
}

func writeJSONFile(plan *entities.AllocationPlan, config Config) error {
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "allocation_plan.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	if err := dto.FromPlan(plan).WriteJSON(file); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON plan saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output
func generateCSVOutput(plan *entities.AllocationPlan, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := dto.FromPlan(plan)

	inventoryFile := filepath.Join(config.OutputDir, "inventory_actions.csv")
	if err := writeCSV(inventoryFile, inventoryRows(doc)); err != nil {
		return fmt.Errorf("failed to write inventory actions CSV: %w", err)
	}

	staffingFile := filepath.Join(config.OutputDir, "staffing_actions.csv")
	if err := writeCSV(staffingFile, staffingRows(doc)); err != nil {
		return fmt.Errorf("failed to write staffing actions CSV: %w", err)
	}

	if config.Verbose {
		w := config.writer()
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Inventory Actions: %s\n", inventoryFile)
		fmt.Fprintf(w, "  Staffing Actions: %s\n", staffingFile)
	}

	return nil
}

func inventoryRows(doc *dto.AllocationPlanDocument) [][]string {
	rows := [][]string{{"item_name", "current_stock", "predicted_demand", "action", "quantity", "priority", "vendor_id"}}
	for _, a := range doc.InventoryActions {
		rows = append(rows, []string{
			a.ItemName,
			strconv.FormatInt(a.CurrentStock, 10),
			strconv.FormatInt(a.PredictedDemand, 10),
			a.Action,
			strconv.FormatInt(a.Quantity, 10),
			a.Priority,
			a.VendorID,
		})
	}
	return rows
}

func staffingRows(doc *dto.AllocationPlanDocument) [][]string {
	rows := [][]string{{"role", "current_roster_count", "required_count", "action", "source_dept", "target_dept", "count"}}
	for _, a := range doc.StaffingActions {
		rows = append(rows, []string{
			a.Role,
			strconv.FormatInt(a.CurrentRosterCount, 10),
			strconv.FormatInt(a.RequiredCount, 10),
			a.Action,
			a.SourceDept,
			a.TargetDept,
			strconv.FormatInt(a.Count, 10),
		})
	}
	return rows
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Sync()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
