package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

func plan() *entities.AllocationPlan {
	return &entities.AllocationPlan{
		Date:               time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC),
		Condition:          entities.RespiratorySurge,
		TargetDepartment:   "Emergency",
		PredictedPatients:  150,
		ForecastConfidence: 0.82,
		PurchaseOrders: []entities.PurchaseOrderDirective{
			{SKU: "MED-NEB-001", ItemName: "Nebulizer Masks", CurrentStock: 50, PredictedDemand: 300,
				Quantity: 310, Urgency: entities.UrgencyCritical, VendorID: "MEDEQUIP_A"},
		},
		StaffingDirectives: []entities.StaffingDirective{
			{Role: "respiratory_therapist", CurrentRosterCount: 5, RequiredCount: 15,
				Action: entities.Reallocate, SourceDepartment: "OPD", TargetDepartment: "Emergency", Count: 8},
			{Role: "respiratory_therapist", CurrentRosterCount: 5, RequiredCount: 15,
				Action: entities.OnCall, TargetDepartment: "Emergency", Count: 2},
			{Role: "triage_nurse", CurrentRosterCount: 2, RequiredCount: 6,
				Action: entities.AgencyRequest, TargetDepartment: "Emergency", Count: 4},
		},
		Advisories: []string{"ELECTIVE DEFERRAL: postpone non-urgent elective procedures in Emergency"},
		Warnings:   []entities.DataGapWarning{{Kind: entities.MissingInventory, Resource: "MED-PULOX-01"}},
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(plan(), Config{Format: "text", Writer: &buf}))

	out := buf.String()
	assert.Contains(t, out, "Surge Context: RESPIRATORY_SURGE")
	assert.Contains(t, out, "Purchase Orders: 1 (310 units)")
	assert.Contains(t, out, "Staff Reallocated: 8")
	assert.Contains(t, out, "On-Call Activated: 2")
	assert.Contains(t, out, "Agency Requested: 4")
	assert.Regexp(t, `respiratory_therapist\s+REALLOCATE\s+OPD\s+Emergency`, out)
	assert.Regexp(t, `respiratory_therapist\s+ON_CALL\s+-\s+Emergency`, out)
	assert.Regexp(t, `triage_nurse\s+AGENCY_REQUEST\s+-\s+Emergency`, out)
	assert.Contains(t, out, "1. ELECTIVE DEFERRAL")
	assert.Contains(t, out, "no inventory row for MED-PULOX-01")
}

func TestGenerate_JSONToWriterAndFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(plan(), Config{Format: "json", Writer: &buf}))
	assert.Contains(t, buf.String(), `"surge_context": "respiratory_surge"`)

	dir := t.TempDir()
	buf.Reset()
	require.NoError(t, Generate(plan(), Config{Format: "json", OutputDir: dir, Verbose: true, Writer: &buf}))
	content, err := os.ReadFile(filepath.Join(dir, "allocation_plan.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"quantity": 310`)
	assert.Contains(t, buf.String(), "allocation_plan.json")
}

func TestGenerate_CSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Generate(plan(), Config{Format: "csv", OutputDir: dir, Writer: &bytes.Buffer{}}))

	readCSV := func(name string) [][]string {
		file, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		defer file.Close()
		rows, err := csv.NewReader(file).ReadAll()
		require.NoError(t, err)
		return rows
	}

	inventory := readCSV("inventory_actions.csv")
	require.Len(t, inventory, 2)
	assert.Equal(t, []string{"Nebulizer Masks", "50", "300", "GENERATE_PO", "310", "CRITICAL", "MEDEQUIP_A"}, inventory[1])

	staffing := readCSV("staffing_actions.csv")
	require.Len(t, staffing, 4)
	assert.Equal(t, []string{"respiratory_therapist", "5", "15", "REALLOCATE", "OPD", "Emergency", "8"}, staffing[1])
	assert.Equal(t, []string{"respiratory_therapist", "5", "15", "ON_CALL", "", "Emergency", "2"}, staffing[2])
	assert.Equal(t, []string{"triage_nurse", "2", "6", "AGENCY_REQUEST", "", "Emergency", "4"}, staffing[3])
}

func TestGenerate_Errors(t *testing.T) {
	assert.ErrorContains(t, Generate(plan(), Config{Format: "csv"}), "output directory required")
	assert.ErrorContains(t, Generate(plan(), Config{Format: "gantt"}), "unsupported output format")
}
