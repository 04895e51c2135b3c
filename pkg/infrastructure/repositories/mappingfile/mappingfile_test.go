package mappingfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/infrastructure/repositories/memory"
)

const sampleKB = `
conditions:
  - condition: respiratory
    name: Smog Season
    volume_multiplier: 1.6
    staffing:
      - role: respiratory_therapist
        ratio: 0.125
        priority: critical
      - role: general_nurse
        ratio: 0.25
        priority: high
        on_call_acceptable: false
    inventory:
      - sku: MED-NEB-001
        item_name: Nebulizer Masks
        units_per_patient: 2.5
        unit_type: units
        priority: 1
        lead_time_days: 1
        vendor_id: MEDEQUIP_B
`

func TestParse(t *testing.T) {
	profiles, err := Parse([]byte(sampleKB))
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Equal(t, entities.RespiratorySurge, p.Condition)
	assert.True(t, p.VolumeMultiplier.Equal(decimal.RequireFromString("1.6")))
	require.Len(t, p.Requirements, 3)

	assert.Equal(t, entities.Staffing, p.Requirements[0].Kind)
	assert.True(t, p.Requirements[0].Coefficient.Equal(decimal.RequireFromString("0.125")))
	assert.Equal(t, entities.TierCritical, p.Requirements[0].Tier)
	assert.True(t, p.Requirements[0].OnCallAcceptable, "on-call eligible unless the file says otherwise")

	assert.Equal(t, "general_nurse", p.Requirements[1].Name)
	assert.False(t, p.Requirements[1].OnCallAcceptable)

	assert.Equal(t, entities.Inventory, p.Requirements[2].Kind)
	assert.Equal(t, "MEDEQUIP_B", p.Requirements[2].VendorID)
	assert.Equal(t, entities.TierCritical, p.Requirements[2].Tier)
	assert.False(t, p.Requirements[2].OnCallAcceptable)
}

func TestParse_Errors(t *testing.T) {
	testCases := map[string]string{
		"bad yaml":          "conditions: [",
		"unknown condition": "conditions:\n  - condition: cholera\n",
		"bad ratio":         "conditions:\n  - condition: burn\n    staffing:\n      - role: x\n        ratio: lots\n        priority: high\n",
		"bad priority":      "conditions:\n  - condition: burn\n    staffing:\n      - role: x\n        ratio: 1\n        priority: urgent\n",
		"negative ratio":    "conditions:\n  - condition: burn\n    staffing:\n      - role: x\n        ratio: -1\n        priority: high\n",
	}

	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, entities.IsConfigurationError(err))
		})
	}
}

func TestLoadAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleKB), 0o644))

	overrides, err := Load(path)
	require.NoError(t, err)

	merged := Merge(memory.DefaultProfiles(), overrides)
	require.Len(t, merged, 4)
	assert.Equal(t, "Smog Season", merged[0].Name)
	assert.Equal(t, entities.BurnTrauma, merged[1].Condition)

	repo, err := memory.NewResourceMappingRepository(merged)
	require.NoError(t, err)
	reqs, err := repo.Requirements(entities.RespiratorySurge)
	require.NoError(t, err)
	assert.Len(t, reqs, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
