package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/surgealloc/pkg/application/dto"
	"github.com/vsinha/surgealloc/pkg/application/services/condition"
	"github.com/vsinha/surgealloc/pkg/application/services/inventory"
	"github.com/vsinha/surgealloc/pkg/application/services/orchestration"
	"github.com/vsinha/surgealloc/pkg/application/services/staffing"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/infrastructure/events"
	"github.com/vsinha/surgealloc/pkg/infrastructure/logging"
	"github.com/vsinha/surgealloc/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	logger, err := logging.NewLogger("info", "console", "surgealloc-example")
	if err != nil {
		fmt.Printf("❌ Logger setup failed: %v\n", err)
		return
	}
	defer logger.Sync()

	// Diwali night: expect burn injuries in Emergency
	surge := condition.NewDetector().Detect(condition.Signals{AQI: 140, EventType: "diwali"})
	planDate := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	mappings, err := memory.NewDefaultResourceMappingRepository(memory.WithLogger(logger))
	if err != nil {
		fmt.Printf("❌ Knowledge base invalid: %v\n", err)
		return
	}

	stock, err := entities.NewInventorySnapshot(planDate, []entities.InventoryRecord{
		{SKU: "MED-SSD-500", ItemName: "Silver Sulfadiazine Cream 500g", OnHand: 40, VendorID: "PHARMA_CORP_A"},
		{SKU: "MED-GAU-44", ItemName: "Sterile Gauze Pads (4x4)", OnHand: 1200, CommittedIncoming: 500},
		{SKU: "MED-LR-1000", ItemName: "IV Fluids - Lactated Ringer's 1L", OnHand: 300},
		{SKU: "MED-BURN-KIT", ItemName: "Burn Dressing Kits", OnHand: 25},
		{SKU: "MED-MOR-10", ItemName: "Morphine Sulfate 10mg/ml", OnHand: 200},
	})
	if err != nil {
		fmt.Printf("❌ Inventory snapshot invalid: %v\n", err)
		return
	}

	roster, err := entities.NewStaffingSnapshot(planDate, []entities.RosterEntry{
		{Role: "plastic_surgeon", Department: "Emergency", Count: 2},
		{Role: "plastic_surgeon", Department: "Surgery", Count: 6},
		{Role: "triage_nurse", Department: "Emergency", Count: 18},
		{Role: "triage_nurse", Department: "OPD", Count: 14},
		{Role: "triage_nurse", Department: "Dermatology", Count: 4},
		{Role: "anesthetist", Department: "Emergency", Count: 3},
	})
	if err != nil {
		fmt.Printf("❌ Staffing snapshot invalid: %v\n", err)
		return
	}

	orchestrator := orchestration.NewAllocationOrchestrator(
		mappings,
		inventory.NewGapAnalyzer(inventory.DefaultUrgencyPolicy(), 0, logger),
		staffing.NewOptimizer(staffing.DefaultPolicy([]entities.Department{
			{Name: "Emergency", Priority: 1},
			{Name: "ICU", Priority: 1},
			{Name: "Surgery", Priority: 2},
			{Name: "OPD", Priority: 4},
			{Name: "Dermatology", Priority: 5},
		}), logger),
		orchestration.DefaultSettings(),
		logger,
	)

	fmt.Printf("🔥 Building %s plan for 80 predicted patients...\n\n", surge)

	plan, err := orchestrator.BuildPlan(ctx, orchestration.PlanRequest{
		PredictedPatients:  80,
		Condition:          surge,
		TargetDepartment:   "Emergency",
		Inventory:          stock,
		Staffing:           roster,
		ForecastConfidence: 0.72,
		Date:               planDate,
		HorizonDays:        2,
	})
	if err != nil {
		fmt.Printf("❌ Allocation failed: %v\n", err)
		return
	}

	// Keep an in-process record of what the plan asked for
	store := events.NewInMemoryEventStore(logger)
	if _, err := events.PublishPlan(ctx, store, plan); err != nil {
		fmt.Printf("⚠️  Event publishing failed: %v\n", err)
	}
	published, _ := store.ReadEvents(events.PlanStreamID(plan), 1)

	fmt.Printf("📊 Plan %s: %d purchase orders, %d staffing directives, %d events\n\n",
		plan.ID, len(plan.PurchaseOrders), len(plan.StaffingDirectives), len(published))

	if err := dto.FromPlan(plan).WriteJSON(os.Stdout); err != nil {
		fmt.Printf("❌ Encoding failed: %v\n", err)
	}
}
