package bus

import "time"

// CrowdLevel buckets the passenger count reported by the vision service.
type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "Low"
	CrowdMedium   CrowdLevel = "Medium"
	CrowdHigh     CrowdLevel = "High"
	CrowdCritical CrowdLevel = "Critical"
	CrowdUnknown  CrowdLevel = "Unknown"
)

// Bus status values.
const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusMaintenance = "maintenance"
)

// VideoProcessingStatus values for the async detection pipeline.
const (
	VideoPending    = "pending"
	VideoProcessing = "processing"
	VideoCompleted  = "completed"
	VideoError      = "error"
)

// Owner is the resolved creator of a bus, joined in on reads for display.
type Owner struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Bus is a monitored resource. Its chat room exists implicitly for the
// lifetime of the record; live state (count, crowd level, monitoring flag) is
// written by the detection pipeline and read by chat and presence logic.
type Bus struct {
	ID                string     `json:"_id"`
	BusNumber         string     `json:"busNumber"`
	Route             string     `json:"route"`
	Capacity          int        `json:"capacity"`
	Status            string     `json:"status"`
	CreatedBy         Owner      `json:"createdBy"`
	StreamURL         *string    `json:"streamUrl"`
	VideoURL          *string    `json:"videoUrl"`
	PublicAccessToken *string    `json:"publicAccessToken,omitempty"`
	VideoTaskID       *string    `json:"videoProcessingTaskId,omitempty"`
	VideoStatus       *string    `json:"videoProcessingStatus,omitempty"`
	CurrentCrowdLevel CrowdLevel `json:"currentCrowdLevel"`
	CurrentCount      int        `json:"currentCount"`
	IsMonitoring      bool       `json:"isMonitoring"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ManagedBy reports whether the viewer may administer this bus.
func (b *Bus) ManagedBy(userID, role string) bool {
	return role == "admin" || b.CreatedBy.ID == userID
}

// Update carries the mutable fields of a bus; nil pointers are left untouched.
type Update struct {
	BusNumber         *string
	Route             *string
	Capacity          *int
	Status            *string
	StreamURL         *string
	CurrentCrowdLevel *CrowdLevel
	CurrentCount      *int
	IsMonitoring      *bool
}
