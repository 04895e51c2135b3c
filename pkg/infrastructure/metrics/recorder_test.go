package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

func plan() *entities.AllocationPlan {
	return &entities.AllocationPlan{
		Condition: entities.BurnTrauma,
		PurchaseOrders: []entities.PurchaseOrderDirective{
			{SKU: "MED-GAU-44", Quantity: 900, Urgency: entities.UrgencyCritical},
			{SKU: "MED-MOR-10", Quantity: 40, Urgency: entities.UrgencyHigh},
		},
		StaffingDirectives: []entities.StaffingDirective{
			{Role: "triage_nurse", Action: entities.Reallocate, SourceDepartment: "OPD", Count: 3},
			{Role: "triage_nurse", Action: entities.OnCall, Count: 5},
			{Role: "plastic_surgeon", Action: entities.OnCall, Count: 1},
			{Role: "plastic_surgeon", Action: entities.AgencyRequest, Count: 2},
		},
		Warnings: []entities.DataGapWarning{{Kind: entities.MissingInventory, Resource: "MED-GAU-44"}},
	}
}

func TestRecorder_Record(t *testing.T) {
	r := NewRecorder()
	r.Record(plan())
	r.Record(plan())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.plansBuilt.WithLabelValues("burn_trauma")))
	assert.Equal(t, 1880.0, testutil.ToFloat64(r.unitsOrdered.WithLabelValues("burn_trauma")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.directives.WithLabelValues("inventory", "CRITICAL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.directives.WithLabelValues("staffing", "REALLOCATE")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.directives.WithLabelValues("staffing", "ON_CALL")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.directives.WithLabelValues("staffing", "AGENCY_REQUEST")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.dataGaps.WithLabelValues("inventory")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Record(plan())

	path := filepath.Join(t.TempDir(), "surgealloc.prom")
	require.NoError(t, r.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `surgealloc_plans_built_total{condition="burn_trauma"} 1`)
	assert.Contains(t, string(content), `surgealloc_directives_total{action="REALLOCATE",kind="staffing"} 1`)
	assert.Contains(t, string(content), `surgealloc_directives_total{action="AGENCY_REQUEST",kind="staffing"} 1`)

	assert.Error(t, r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")))
}
