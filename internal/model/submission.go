package model

import "time"

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionPublished SubmissionStatus = "published"
	SubmissionRejected  SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionPublished, SubmissionRejected:
		return true
	}
	return false
}

// swagger:model Submission
type Submission struct {
	UUIDBase
	Title       string           `gorm:"size:200;not null" json:"title"`
	Abstract    string           `gorm:"type:text" json:"abstract"`
	StudentName string           `gorm:"size:100" json:"studentName"`
	StudentID   string           `gorm:"type:varchar(36);index;not null" json:"studentId"`
	ImageURL    string           `gorm:"size:512" json:"imageUrl"`
	Status      SubmissionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	SubmittedAt time.Time        `gorm:"index" json:"submittedAt"`

	Student *UserSummary `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
