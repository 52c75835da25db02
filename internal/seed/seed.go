// Package seed carries the bundled default dataset used when no
// persisted snapshot exists. Dates are generated relative to the
// current day so the dataset stays plausible whenever it is loaded.
package seed

import (
	"time"

	"assetline/internal/domain"
	"assetline/internal/store"
)

const dateLayout = "2006-01-02"

// Default builds the seed snapshot. Location asset-id back references
// are linked from the asset list, and tasks are stored newest first to
// match the store's prepend convention.
func Default(now time.Time) store.State {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(dateLayout)
	}

	people := []domain.Person{
		{
			ID: "PER-001", Name: "Nadia Patel", Role: "Asset Compliance Lead",
			Department: "IT Governance", Email: "nadia.patel@example.com",
			Phone:          "+1 415-555-0198",
			Certifications: []string{"CISA", "ITIL v4"},
			Workload:       domain.Workload{Pending: 6, Completed: 42, SLARisk: 1},
		},
		{
			ID: "PER-002", Name: "Marcus Lee", Role: "Regional Auditor",
			Department: "Infrastructure", Email: "marcus.lee@example.com",
			Phone:          "+1 303-555-0109",
			Certifications: []string{"CCSP", "CISSP"},
			Workload:       domain.Workload{Pending: 9, Completed: 31, SLARisk: 3},
		},
		{
			ID: "PER-003", Name: "Ivy Thompson", Role: "Asset Custodian",
			Department: "EU Operations", Email: "ivy.thompson@example.com",
			Phone:          "+44 20 7946 0955",
			Certifications: []string{"ISO 27001 Lead Auditor"},
			Workload:       domain.Workload{Pending: 4, Completed: 27, SLARisk: 0},
		},
		{
			ID: "PER-004", Name: "Diego Fernandez", Role: "Field Verification Specialist",
			Department: "LATAM Support", Email: "diego.fernandez@example.com",
			Phone:          "+55 11 3091-4456",
			Certifications: []string{"CompTIA Security+"},
			Workload:       domain.Workload{Pending: 5, Completed: 18, SLARisk: 2},
		},
	}

	locations := []domain.Location{
		{
			ID: "LOC-001", Name: "San Francisco HQ", Code: "SF-HQ", Region: "North America",
			Address: "525 Market Street, San Francisco, CA", ContactID: "PER-001", Occupancy: 86,
		},
		{
			ID: "LOC-002", Name: "Denver DC", Code: "DEN-DC", Region: "North America",
			Address: "1500 Curtis Street, Denver, CO", ContactID: "PER-002", Occupancy: 63,
		},
		{
			ID: "LOC-003", Name: "London Campus", Code: "LDN-OPS", Region: "EMEA",
			Address: "10 Upper Bank Street, London, UK", ContactID: "PER-003", Occupancy: 74,
		},
		{
			ID: "LOC-004", Name: "São Paulo Hub", Code: "SAO-HUB", Region: "LATAM",
			Address: "Av. Paulista, 2300, São Paulo, Brazil", ContactID: "PER-004", Occupancy: 55,
		},
	}

	assets := []domain.Asset{
		{
			ID: "AST-1001", Name: `MacBook Pro 16"`, AssetTag: "IT-ALPHA-001", Category: "Endpoint",
			OwnerID: "PER-001", LocationID: "LOC-001", Status: domain.AssetPending,
			LastVerified: day(-72), NextDue: day(18), RiskRating: domain.RiskHigh,
			SerialNumber: "MBP16-2022-9981", PurchaseDate: "2022-04-12", WarrantyExpiry: "2025-04-12",
			CostCenter: "CC-ITOPS-001", Tags: []string{"High Value", "Executive"},
			Verifications: []domain.VerificationRecord{
				{
					ID: "VER-501", AssetID: "AST-1001", Date: day(-180), Outcome: domain.OutcomePassed,
					PerformedByID: "PER-002", Notes: "Firmware baseline confirmed, encryption verified.",
				},
				{
					ID: "VER-502", AssetID: "AST-1001", Date: day(-75), Outcome: domain.OutcomeFailed,
					PerformedByID: "PER-002", Notes: "CrowdStrike agent offline for 3 days.",
					Issues: []string{"AV agent offline"},
				},
			},
		},
		{
			ID: "AST-1002", Name: "Cisco Catalyst 9500", AssetTag: "NET-CORE-014", Category: "Network",
			OwnerID: "PER-002", LocationID: "LOC-002", Status: domain.AssetVerified,
			LastVerified: day(-14), NextDue: day(166), RiskRating: domain.RiskMedium,
			SerialNumber: "CAT9K-9500-4451", PurchaseDate: "2021-09-03", WarrantyExpiry: "2026-09-03",
			CostCenter: "CC-NET-204", Tags: []string{"Core Switch", "Critical"},
			Verifications: []domain.VerificationRecord{
				{
					ID: "VER-601", AssetID: "AST-1002", Date: day(-185), Outcome: domain.OutcomePassed,
					PerformedByID: "PER-002", Notes: "IOS-XE updated, config archived.",
				},
				{
					ID: "VER-602", AssetID: "AST-1002", Date: day(-14), Outcome: domain.OutcomePassed,
					PerformedByID: "PER-001", Notes: "Configuration diff clean, interfaces nominal.",
				},
			},
		},
		{
			ID: "AST-1003", Name: "Dell PowerEdge R740", AssetTag: "SRV-COMPUTE-022", Category: "Server",
			OwnerID: "PER-002", LocationID: "LOC-002", Status: domain.AssetFlagged,
			LastVerified: day(-120), NextDue: day(-4), RiskRating: domain.RiskHigh,
			SerialNumber: "SVR-R740-3399", PurchaseDate: "2020-01-21", WarrantyExpiry: "2025-01-21",
			CostCenter: "CC-CLOUD-310", Tags: []string{"Hypervisor", "Cluster-A"},
			Verifications: []domain.VerificationRecord{
				{
					ID: "VER-701", AssetID: "AST-1003", Date: day(-210), Outcome: domain.OutcomePassed,
					PerformedByID: "PER-003", Notes: "Baseline config validated, patch level current.",
				},
				{
					ID: "VER-702", AssetID: "AST-1003", Date: day(-35), Outcome: domain.OutcomeFailed,
					PerformedByID: "PER-004", Notes: "vCenter heartbeat alerts, failover aborted.",
					Issues: []string{"HA failover failed", "Firmware mismatch detected"},
				},
			},
		},
		{
			ID: "AST-1004", Name: "Lenovo ThinkPad X1", AssetTag: "IT-FIELD-114", Category: "Endpoint",
			OwnerID: "PER-004", LocationID: "LOC-004", Status: domain.AssetPending,
			LastVerified: day(-54), NextDue: day(36), RiskRating: domain.RiskMedium,
			SerialNumber: "LTPX1-2023-6611", PurchaseDate: "2023-06-01", WarrantyExpiry: "2026-06-01",
			CostCenter: "CC-FIELD-118", Tags: []string{"Remote Workforce"},
			Verifications: []domain.VerificationRecord{
				{
					ID: "VER-801", AssetID: "AST-1004", Date: day(-54), Outcome: domain.OutcomeInProgress,
					PerformedByID: "PER-004", Notes: "Awaiting TPM attestation results.",
				},
			},
		},
		{
			ID: "AST-1005", Name: "HP LaserJet M609", AssetTag: "PRT-OPS-004", Category: "Peripheral",
			OwnerID: "PER-003", LocationID: "LOC-003", Status: domain.AssetVerified,
			LastVerified: day(-21), NextDue: day(159), RiskRating: domain.RiskLow,
			SerialNumber: "HPLJ-M609-4432", PurchaseDate: "2022-12-09", WarrantyExpiry: "2027-12-09",
			CostCenter: "CC-FAC-221", Tags: []string{"Shared Device"},
			Verifications: []domain.VerificationRecord{
				{
					ID: "VER-901", AssetID: "AST-1005", Date: day(-21), Outcome: domain.OutcomePassed,
					PerformedByID: "PER-003", Notes: "Firmware patched and SNMP ACL tightened.",
				},
			},
		},
	}

	activities := []domain.ActivityEntry{
		{
			ID: "ACT-3001", Type: "incident", Title: "HA failover aborted on R740 cluster",
			Description: "Automated verification caught misaligned firmware signature on node SRV-COMPUTE-022. Cluster placed in hold for remediation.",
			AssetID:     "AST-1003", PersonID: "PER-004",
			CreatedAt: now.AddDate(0, 0, -2).UTC().Format(time.RFC3339),
			Severity:  domain.SeverityCritical,
		},
		{
			ID: "ACT-3002", Type: "verification", Title: "Encryption attestation outstanding",
			Description: "ThinkPad X1 pending TPM attestation payload. Follow-up with field engineer scheduled for Friday.",
			AssetID:     "AST-1004", PersonID: "PER-004",
			CreatedAt: now.AddDate(0, 0, -1).UTC().Format(time.RFC3339),
			Severity:  domain.SeverityWarning,
		},
		{
			ID: "ACT-3003", Type: "asset", Title: "New asset onboarding: M609 printer",
			Description: "HP LaserJet added to London campus under shared services program. Auto-verification complete.",
			AssetID:     "AST-1005", PersonID: "PER-003",
			CreatedAt: now.AddDate(0, 0, -5).UTC().Format(time.RFC3339),
			Severity:  domain.SeverityInfo,
		},
	}

	// Creation order TASK-9001..9003; the store keeps newest first.
	tasks := []domain.VerificationTask{
		{
			ID: "TASK-9003", AssetID: "AST-1004", DueDate: day(6), AssignedToID: "PER-004",
			Status: domain.TaskScheduled, Priority: domain.PriorityMedium,
			Checklist: []string{
				"Collect TPM report",
				"Refresh Intune compliance",
				"Capture user acknowledgement",
			},
		},
		{
			ID: "TASK-9002", AssetID: "AST-1003", DueDate: day(2), AssignedToID: "PER-002",
			Status: domain.TaskInProgress, Priority: domain.PriorityHigh,
			Checklist: []string{
				"Confirm firmware flash rollback",
				"Verify HA cluster heartbeat",
				"Document remediation evidence",
			},
		},
		{
			ID: "TASK-9001", AssetID: "AST-1001", DueDate: day(18), AssignedToID: "PER-001",
			Status: domain.TaskScheduled, Priority: domain.PriorityHigh,
			Checklist: []string{
				"Validate endpoint protection agent",
				"Capture FileVault escrow ticket",
				"Reconcile asset tag with ServiceNow",
			},
		},
	}

	return store.State{
		Assets:     assets,
		People:     people,
		Locations:  linkAssets(assets, locations),
		Activities: activities,
		Tasks:      tasks,
	}
}

func linkAssets(assets []domain.Asset, locations []domain.Location) []domain.Location {
	out := make([]domain.Location, len(locations))
	for i, loc := range locations {
		ids := []string{}
		for _, a := range assets {
			if a.LocationID == loc.ID {
				ids = append(ids, a.ID)
			}
		}
		loc.AssetIDs = ids
		out[i] = loc
	}
	return out
}
