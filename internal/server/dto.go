package server

import (
	"assetline/internal/domain"
	"assetline/internal/store"
)

// Request payloads

type RegisterAssetRequest struct {
	Name           string            `json:"name"`
	AssetTag       string            `json:"assetTag,omitempty"`
	Category       string            `json:"category"`
	OwnerID        string            `json:"ownerId,omitempty"`
	LocationID     string            `json:"locationId"`
	RiskRating     domain.RiskRating `json:"riskRating,omitempty" enum:"low,medium,high,"`
	SerialNumber   string            `json:"serialNumber,omitempty"`
	PurchaseDate   string            `json:"purchaseDate,omitempty"`
	WarrantyExpiry string            `json:"warrantyExpiry,omitempty"`
	CostCenter     string            `json:"costCenter,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
}

type RecordVerificationRequest struct {
	Date          string                     `json:"date,omitempty"`
	Status        domain.VerificationOutcome `json:"status" enum:"passed,failed,in-progress"`
	PerformedByID string                     `json:"performedById"`
	Notes         string                     `json:"notes,omitempty"`
	Issues        string                     `json:"issues,omitempty"`
}

type CreateTaskRequest struct {
	AssetID      string              `json:"assetId"`
	DueDate      string              `json:"dueDate"`
	AssignedToID string              `json:"assignedToId,omitempty"`
	Priority     domain.TaskPriority `json:"priority,omitempty" enum:"low,medium,high,"`
	Checklist    []string            `json:"checklist,omitempty"`
}

type SetTaskStatusRequest struct {
	Status domain.TaskStatus `json:"status" enum:"scheduled,in-progress,completed,overdue"`
}

type LogActivityRequest struct {
	Type        string          `json:"type,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	AssetID     string          `json:"assetId,omitempty"`
	PersonID    string          `json:"personId,omitempty"`
	Severity    domain.Severity `json:"severity,omitempty" enum:"info,warning,critical,"`
}

// Response payloads

// AssetDetailResponse resolves the owner and location names alongside
// the asset itself. Dangling references leave the names empty.
type AssetDetailResponse struct {
	domain.Asset
	OwnerName    string `json:"ownerName,omitempty"`
	LocationName string `json:"locationName,omitempty"`
}

func assetDetail(s store.State, asset domain.Asset) AssetDetailResponse {
	detail := AssetDetailResponse{Asset: asset}
	if owner, ok := s.Person(asset.OwnerID); ok {
		detail.OwnerName = owner.Name
	}
	if loc, ok := s.Location(asset.LocationID); ok {
		detail.LocationName = loc.Name
	}
	return detail
}
