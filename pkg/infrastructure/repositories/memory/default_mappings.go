package memory

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

func staff(role string, ratio string, tier entities.PriorityTier) entities.ResourceRequirement {
	return entities.ResourceRequirement{
		Kind:             entities.Staffing,
		Name:             role,
		DisplayName:      role,
		Coefficient:      decimal.RequireFromString(ratio),
		Tier:             tier,
		UnitType:         "staff",
		OnCallAcceptable: true,
	}
}

// staffNoOnCall is a role that must be reallocated or hired through an agency
func staffNoOnCall(role string, ratio string, tier entities.PriorityTier) entities.ResourceRequirement {
	req := staff(role, ratio, tier)
	req.OnCallAcceptable = false
	return req
}

func stock(sku, itemName, perPatient, unitType string, tier entities.PriorityTier, leadTimeDays int, vendorID string) entities.ResourceRequirement {
	return entities.ResourceRequirement{
		Kind:         entities.Inventory,
		Name:         sku,
		DisplayName:  itemName,
		Coefficient:  decimal.RequireFromString(perPatient),
		LeadTimeDays: leadTimeDays,
		Tier:         tier,
		VendorID:     vendorID,
		UnitType:     unitType,
	}
}

// DefaultProfiles returns the built-in knowledge base of condition profiles
func DefaultProfiles() []entities.ConditionProfile {
	return []entities.ConditionProfile{
		{
			Condition:        entities.RespiratorySurge,
			Name:             "Respiratory Surge",
			Description:      "Surge in respiratory conditions due to air pollution/smog",
			VolumeMultiplier: decimal.RequireFromString("1.3"),
			Requirements: []entities.ResourceRequirement{
				staff("pulmonologist", "0.05", entities.TierHigh),
				staffNoOnCall("respiratory_therapist", "0.1", entities.TierCritical),
				staffNoOnCall("general_nurse", "0.25", entities.TierCritical),
				stock("MED-NEB-001", "Nebulizer Masks", "2.0", "units", entities.TierCritical, 1, "MEDEQUIP_A"),
				stock("MED-ALB-500", "Albuterol Sulfate Inhalation Solution", "3.0", "vials", entities.TierCritical, 2, "PHARMA_CORP_A"),
				stock("MED-OXY-D", "Oxygen Cylinders (Type D)", "0.5", "cylinders", entities.TierCritical, 2, "MEDGAS_SUPPLY"),
				stock("PPE-N95-001", "N95 Respirator Masks", "5.0", "masks", entities.TierHigh, 1, "PPE_DIRECT"),
				stock("MED-PULOX-01", "Pulse Oximeters", "0.1", "units", entities.TierMedium, 3, "MEDEQUIP_A"),
			},
		},
		{
			Condition:        entities.BurnTrauma,
			Name:             "Burn Trauma Surge",
			Description:      "Surge in burn injuries during festivals (Diwali)",
			VolumeMultiplier: decimal.RequireFromString("1.5"),
			Requirements: []entities.ResourceRequirement{
				staff("plastic_surgeon", "0.1", entities.TierCritical),
				staffNoOnCall("triage_nurse", "0.4", entities.TierCritical),
				staff("anesthetist", "0.05", entities.TierHigh),
				stock("MED-SSD-500", "Silver Sulfadiazine Cream 500g", "1.5", "tubes", entities.TierCritical, 2, "PHARMA_CORP_A"),
				stock("MED-GAU-44", "Sterile Gauze Pads (4x4)", "20", "pads", entities.TierCritical, 1, "SURGICAL_SUPPLY"),
				stock("MED-LR-1000", "IV Fluids - Lactated Ringer's 1L", "3.0", "bags", entities.TierCritical, 1, "PHARMA_CORP_B"),
				stock("MED-BURN-KIT", "Burn Dressing Kits", "2.0", "kits", entities.TierHigh, 2, "SURGICAL_SUPPLY"),
				stock("MED-MOR-10", "Morphine Sulfate 10mg/ml", "2.0", "vials", entities.TierHigh, 3, "PHARMA_CORP_A"),
			},
		},
		{
			Condition:        entities.DengueOutbreak,
			Name:             "Dengue Outbreak",
			Description:      "Dengue fever outbreak during monsoon season",
			VolumeMultiplier: decimal.RequireFromString("1.4"),
			Requirements: []entities.ResourceRequirement{
				staffNoOnCall("phlebotomist", "0.1", entities.TierHigh),
				staff("general_physician", "0.05", entities.TierHigh),
				staffNoOnCall("general_nurse", "0.2", entities.TierHigh),
				stock("MED-PLT-KIT", "Platelet Concentrate Kits", "0.3", "units", entities.TierCritical, 1, "BLOOD_BANK"),
				stock("MED-PARA-IV", "IV Paracetamol 1g/100ml", "4.0", "vials", entities.TierHigh, 2, "PHARMA_CORP_B"),
				stock("LAB-DEN-NS1", "NS1 Dengue Antigen Test Kits", "1.0", "kits", entities.TierHigh, 2, "LAB_DIAGNOSTICS"),
				stock("PPE-MOSQ-NET", "Mosquito Nets (Hospital Grade)", "0.5", "nets", entities.TierMedium, 3, "PPE_DIRECT"),
				stock("MED-SAL-1000", "IV Saline 0.9% 1L", "5.0", "bags", entities.TierHigh, 1, "PHARMA_CORP_B"),
			},
		},
		{
			Condition:        entities.GeneralSurge,
			Name:             "General Patient Surge",
			Description:      "General increase in patient volume",
			VolumeMultiplier: decimal.RequireFromString("1.0"),
			Requirements: []entities.ResourceRequirement{
				staff("general_physician", "0.05", entities.TierHigh),
				staffNoOnCall("general_nurse", "0.25", entities.TierHigh),
				stock("MED-SYR-5", "Disposable Syringes 5ml", "3.0", "syringes", entities.TierMedium, 1, "SURGICAL_SUPPLY"),
				stock("PPE-GLV-LAT", "Surgical Gloves (Latex)", "10.0", "pairs", entities.TierMedium, 1, "PPE_DIRECT"),
				stock("MED-CAN-20", "IV Cannula 20G", "1.0", "units", entities.TierMedium, 2, "SURGICAL_SUPPLY"),
			},
		},
	}
}
