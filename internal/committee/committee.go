package committee

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

func ValidApprovalStatus(status string) bool {
	switch status {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// Member is a point-in-time copy of a user's profile taken when the
// roster is resolved. Later edits to the user do not propagate here.
type Member struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	EmployeeID  string `json:"employee_id"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// MemberSnapshots stores the roster as a JSONB column.
type MemberSnapshots []Member

func (m MemberSnapshots) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MemberSnapshots) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported member snapshot type %T", value)
	}
}

// Creator is the restricted view of the committee's creating user
// exposed on reads.
type Creator struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
}

type Committee struct {
	ID                 int64           `json:"id" gorm:"primaryKey"`
	Name               string          `json:"name" gorm:"column:name;not null"`
	Purpose            string          `json:"purpose" gorm:"column:purpose"`
	FormationDate      string          `json:"formation_date" gorm:"column:formation_date"`
	SpecSubmissionDate string          `json:"spec_submission_date" gorm:"column:spec_submission_date"`
	ReviewDate         string          `json:"review_date" gorm:"column:review_date"`
	Schedule           string          `json:"schedule" gorm:"column:schedule"`
	Members            MemberSnapshots `json:"members" gorm:"column:members;type:jsonb"`
	FileName           *string         `json:"file_name,omitempty" gorm:"column:file_name"`
	FileOriginalName   *string         `json:"file_original_name,omitempty" gorm:"column:file_original_name"`
	FileMimeType       *string         `json:"file_mime_type,omitempty" gorm:"column:file_mime_type"`
	FileSize           *int64          `json:"file_size,omitempty" gorm:"column:file_size"`
	ShouldNotify       bool            `json:"should_notify" gorm:"column:should_notify;default:false"`
	ApprovalStatus     string          `json:"approval_status" gorm:"column:approval_status;default:pending"`
	CreatedBy          int64           `json:"created_by" gorm:"column:created_by;not null"`
	Creator            *Creator        `json:"creator,omitempty" gorm:"-"`
	CreatedAt          time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Committee) TableName() string {
	return "committees"
}

func (c *Committee) HasFile() bool {
	return c.FileName != nil && *c.FileName != ""
}
