package domain

type AssetStatus string

const (
	AssetVerified AssetStatus = "verified"
	AssetPending  AssetStatus = "pending"
	AssetFlagged  AssetStatus = "flagged"
	AssetRetired  AssetStatus = "retired"
)

type VerificationOutcome string

const (
	OutcomePassed     VerificationOutcome = "passed"
	OutcomeFailed     VerificationOutcome = "failed"
	OutcomeInProgress VerificationOutcome = "in-progress"
)

type RiskRating string

const (
	RiskLow    RiskRating = "low"
	RiskMedium RiskRating = "medium"
	RiskHigh   RiskRating = "high"
)

type TaskStatus string

const (
	TaskScheduled  TaskStatus = "scheduled"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOverdue    TaskStatus = "overdue"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// VerificationRecord is one evidence-collection event for an asset.
// Records are immutable once stored.
type VerificationRecord struct {
	ID            string              `json:"id"`
	AssetID       string              `json:"assetId"`
	Date          string              `json:"date" format:"date"`
	Outcome       VerificationOutcome `json:"status" enum:"passed,failed,in-progress"`
	PerformedByID string              `json:"performedById"`
	Notes         string              `json:"notes"`
	Issues        []string            `json:"issues,omitempty"`
}

type Asset struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	AssetTag       string               `json:"assetTag"`
	Category       string               `json:"category"`
	OwnerID        string               `json:"ownerId,omitempty"`
	LocationID     string               `json:"locationId"`
	Status         AssetStatus          `json:"status" enum:"verified,pending,flagged,retired"`
	LastVerified   string               `json:"lastVerified,omitempty" format:"date"`
	NextDue        string               `json:"nextDue" format:"date"`
	RiskRating     RiskRating           `json:"riskRating" enum:"low,medium,high"`
	SerialNumber   string               `json:"serialNumber,omitempty"`
	PurchaseDate   string               `json:"purchaseDate,omitempty" format:"date"`
	WarrantyExpiry string               `json:"warrantyExpiry,omitempty" format:"date"`
	CostCenter     string               `json:"costCenter,omitempty"`
	Tags           []string             `json:"tags,omitempty"`
	Verifications  []VerificationRecord `json:"verifications"`
}

type Workload struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	SLARisk   int `json:"slaRisk"`
}

type Person struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Department     string   `json:"department"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Workload       Workload `json:"workload"`
}

type Location struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Code      string   `json:"code"`
	Region    string   `json:"region"`
	Address   string   `json:"address"`
	ContactID string   `json:"contactId,omitempty"`
	AssetIDs  []string `json:"assetIds"`
	Occupancy int      `json:"occupancy"`
}

// ActivityEntry is an append-only audit note. The log keeps a bounded
// number of the most recent entries, newest first.
type ActivityEntry struct {
	ID          string   `json:"id"`
	Type        string   `json:"type" enum:"verification,asset,incident"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	AssetID     string   `json:"assetId,omitempty"`
	PersonID    string   `json:"personId,omitempty"`
	CreatedAt   string   `json:"createdAt" format:"date-time"`
	Severity    Severity `json:"status" enum:"info,warning,critical"`
}

type VerificationTask struct {
	ID           string       `json:"id"`
	AssetID      string       `json:"assetId"`
	DueDate      string       `json:"dueDate" format:"date"`
	AssignedToID string       `json:"assignedToId,omitempty"`
	Status       TaskStatus   `json:"status" enum:"scheduled,in-progress,completed,overdue"`
	Priority     TaskPriority `json:"priority" enum:"low,medium,high"`
	Checklist    []string     `json:"checklist,omitempty"`
}
