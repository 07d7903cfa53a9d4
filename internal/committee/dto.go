package committee

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Ujjwols/tender-internproject/internal"
)

// MemberList accepts either raw employee-id strings or objects carrying
// an employeeId field, normalized to a flat id list at the boundary.
type MemberList []string

func (m *MemberList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("members must be an array: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for i, entry := range raw {
		var id string
		if err := json.Unmarshal(entry, &id); err == nil {
			ids = append(ids, id)
			continue
		}

		var ref struct {
			EmployeeID string `json:"employeeId"`
		}
		if err := json.Unmarshal(entry, &ref); err != nil {
			return fmt.Errorf("member at index %d must be a string or an object with employeeId", i)
		}
		ids = append(ids, ref.EmployeeID)
	}

	*m = ids
	return nil
}

type CreateCommitteeDTO struct {
	Name               string     `json:"name"`
	Purpose            string     `json:"purpose"`
	FormationDate      string     `json:"formation_date"`
	SpecSubmissionDate string     `json:"spec_submission_date"`
	ReviewDate         string     `json:"review_date"`
	Schedule           string     `json:"schedule"`
	Members            MemberList `json:"members"`
	ShouldNotify       bool       `json:"should_notify"`
}

func (d CreateCommitteeDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationError("committee name is required", internal.ErrCodeMissingFields)
	}
	if len(d.Members) == 0 {
		return internal.NewValidationError("at least one member is required", internal.ErrCodeInvalidMember)
	}
	for _, id := range d.Members {
		if strings.TrimSpace(id) == "" {
			return internal.NewValidationError("member employee id must be a non-empty string", internal.ErrCodeInvalidMember)
		}
	}
	return nil
}

// UpdateCommitteeDTO whitelists the mutable committee fields. Absent
// fields stay nil and are dropped; the attachment cannot be set here.
type UpdateCommitteeDTO struct {
	Name               *string     `json:"name"`
	Purpose            *string     `json:"purpose"`
	FormationDate      *string     `json:"formation_date"`
	SpecSubmissionDate *string     `json:"spec_submission_date"`
	ReviewDate         *string     `json:"review_date"`
	Schedule           *string     `json:"schedule"`
	Members            *MemberList `json:"members"`
	ShouldNotify       *bool       `json:"should_notify"`
	ApprovalStatus     *string     `json:"approval_status"`
}

func (d UpdateCommitteeDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationError("committee name cannot be empty", internal.ErrCodeMissingFields)
	}
	if d.Members != nil {
		if len(*d.Members) == 0 {
			return internal.NewValidationError("at least one member is required", internal.ErrCodeInvalidMember)
		}
		for _, id := range *d.Members {
			if strings.TrimSpace(id) == "" {
				return internal.NewValidationError("member employee id must be a non-empty string", internal.ErrCodeInvalidMember)
			}
		}
	}
	if d.ApprovalStatus != nil && !ValidApprovalStatus(*d.ApprovalStatus) {
		return internal.NewValidationError("approval_status must be pending, approved or rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}
