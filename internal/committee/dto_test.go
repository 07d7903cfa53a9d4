package committee_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/committee"
)

var _ = Describe("MemberList", func() {
	Describe("UnmarshalJSON", func() {
		It("should accept an array of employee-id strings", func() {
			var m committee.MemberList

			err := json.Unmarshal([]byte(`["E100", "E101"]`), &m)

			Expect(err).ToNot(HaveOccurred())
			Expect(m).To(Equal(committee.MemberList{"E100", "E101"}))
		})

		It("should accept an array of objects with employeeId", func() {
			var m committee.MemberList

			err := json.Unmarshal([]byte(`[{"employeeId": "E100"}, {"employeeId": "E101"}]`), &m)

			Expect(err).ToNot(HaveOccurred())
			Expect(m).To(Equal(committee.MemberList{"E100", "E101"}))
		})

		It("should accept a mix of strings and objects", func() {
			var m committee.MemberList

			err := json.Unmarshal([]byte(`["E100", {"employeeId": "E101"}]`), &m)

			Expect(err).ToNot(HaveOccurred())
			Expect(m).To(Equal(committee.MemberList{"E100", "E101"}))
		})

		It("should reject entries that are neither string nor object", func() {
			var m committee.MemberList

			err := json.Unmarshal([]byte(`["E100", 42]`), &m)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("index 1"))
		})

		It("should reject a non-array payload", func() {
			var m committee.MemberList

			err := json.Unmarshal([]byte(`"E100"`), &m)

			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("CreateCommitteeDTO", func() {
	Describe("Validate", func() {
		It("should require a name", func() {
			dto := committee.CreateCommitteeDTO{Members: committee.MemberList{"E100"}}

			err := dto.Validate()

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingFields))
		})

		It("should require at least one member", func() {
			dto := committee.CreateCommitteeDTO{Name: "Evaluation Committee"}

			err := dto.Validate()

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidMember))
		})

		It("should reject blank member ids", func() {
			dto := committee.CreateCommitteeDTO{
				Name:    "Evaluation Committee",
				Members: committee.MemberList{"E100", "  "},
			}

			err := dto.Validate()

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidMember))
		})
	})
})

var _ = Describe("UpdateCommitteeDTO", func() {
	Describe("Validate", func() {
		It("should allow an empty patch", func() {
			Expect(committee.UpdateCommitteeDTO{}.Validate()).To(Succeed())
		})

		It("should reject clearing the name", func() {
			empty := ""
			dto := committee.UpdateCommitteeDTO{Name: &empty}

			Expect(dto.Validate()).To(HaveOccurred())
		})

		It("should reject an unknown approval status", func() {
			bogus := "maybe"
			dto := committee.UpdateCommitteeDTO{ApprovalStatus: &bogus}

			err := dto.Validate()

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidStatus))
		})

		It("should accept a valid approval status", func() {
			approved := committee.ApprovalStatusApproved
			dto := committee.UpdateCommitteeDTO{ApprovalStatus: &approved}

			Expect(dto.Validate()).To(Succeed())
		})
	})
})
