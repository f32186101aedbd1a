package models

import "time"

// Visit statuses. PENDING may move to COMPLETED or CANCELLED; CLOSED is the
// administrative terminal state set by the complete endpoint. Terminal
// statuses accept no further transition.
const (
	VisitStatusPending   = "PENDING"
	VisitStatusCompleted = "COMPLETED"
	VisitStatusCancelled = "CANCELLED"
	VisitStatusClosed    = "CLOSED"
)

// ValidVisitTransition reports whether a visit may move from one status to
// another.
func ValidVisitTransition(from, to string) bool {
	if from != VisitStatusPending {
		return false
	}
	switch to {
	case VisitStatusCompleted, VisitStatusCancelled, VisitStatusClosed:
		return true
	}
	return false
}

// ServiceRequest is a logged complaint against a sold machine. Unlike the
// one-to-one lifecycle records, a machine accumulates any number of these.
type ServiceRequest struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	MachineID uint          `json:"machine_id" gorm:"not null;index"`
	Complaint string        `json:"complaint" gorm:"not null"`
	Visit     *ServiceVisit `json:"visit,omitempty" gorm:"foreignKey:ServiceRequestID"`
	CreatedAt time.Time     `json:"created_at"`
}

// ServiceVisit is the field-service engagement for a request; at most one
// per request, enforced by the unique index on service_request_id.
type ServiceVisit struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ServiceRequestID uint           `json:"service_request_id" gorm:"not null;uniqueIndex"`
	EngineerID       uint           `json:"-" gorm:"not null"`
	Engineer         Engineer       `json:"engineer" gorm:"foreignKey:EngineerID"`
	VisitDate        time.Time      `json:"visit_date"`
	IssueType        string         `json:"issue_type"`
	TotalCost        float64        `json:"total_cost" gorm:"type:numeric(12,2)"`
	Status           string         `json:"status" gorm:"size:20;default:PENDING"`
	Notes            string         `json:"notes"`
	Comments         []VisitComment `json:"comments,omitempty" gorm:"foreignKey:ServiceVisitID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type VisitComment struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	ServiceVisitID uint                `json:"-" gorm:"not null;index"`
	Text           string              `json:"text" gorm:"not null"`
	Attachments    []CommentAttachment `json:"attachments,omitempty" gorm:"foreignKey:VisitCommentID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `json:"created_at"`
}

// CommentAttachment is an opaque reference into the external object store;
// the binary itself is never persisted here. URL is resolved at render time
// from MEDIA_BASE_URL.
type CommentAttachment struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	VisitCommentID uint   `json:"-" gorm:"not null;index"`
	DisplayName    string `json:"display_name" gorm:"not null"`
	ObjectKey      string `json:"object_key" gorm:"not null"`
	URL            string `json:"url" gorm:"-"`
}
