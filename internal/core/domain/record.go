package domain

import "time"

// RecordStatus is the processing state of a verification record. Any status
// may follow any other.
type RecordStatus string

const (
	StatusPending    RecordStatus = "Pending"
	StatusInProgress RecordStatus = "In Progress"
	StatusCompleted  RecordStatus = "Completed"
	StatusRejected   RecordStatus = "Rejected"
)

func (s RecordStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Classification is the declared sensitivity of a record. It is stored and
// returned but no access decision reads it.
type Classification string

const (
	ClassificationPublic     Classification = "Public"
	ClassificationPrivate    Classification = "Private"
	ClassificationRestricted Classification = "Restricted"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassificationPublic, ClassificationPrivate, ClassificationRestricted:
		return true
	}
	return false
}

// Record is a background-verification case owned by the principal that created it.
type Record struct {
	ID             string         `json:"record_id" bson:"record_id"`
	OwnerID        string         `json:"owner_id" bson:"owner_id"`
	Title          string         `json:"title" bson:"title"`
	Description    string         `json:"description" bson:"description"`
	Status         RecordStatus   `json:"status" bson:"status"`
	Priority       Priority       `json:"priority" bson:"priority"`
	Category       string         `json:"category" bson:"category"`
	Classification Classification `json:"classification" bson:"classification"`
	AssignedTo     string         `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

// RecordPatch carries the mutable fields of a record. OwnerID is deliberately absent.
type RecordPatch struct {
	Title          *string
	Description    *string
	Status         *RecordStatus
	Priority       *Priority
	Category       *string
	Classification *Classification
	AssignedTo     *string
	Metadata       map[string]any
}

// Apply copies every non-nil field of p onto r.
func (p RecordPatch) Apply(r *Record) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Classification != nil {
		r.Classification = *p.Classification
	}
	if p.AssignedTo != nil {
		r.AssignedTo = *p.AssignedTo
	}
	if p.Metadata != nil {
		r.Metadata = p.Metadata
	}
}
