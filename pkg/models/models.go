// Package models holds the wire DTOs shared between the gateway client and
// the HTTP handlers. Field names follow the admission backend's JSON.
package models

import "github.com/admitdesk/backoffice/pkg/lead"

// ErrorResponse is the JSON error body served to the staff UI and parsed from
// the backend.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// LeadListResponse wraps GET /api/admission/leads.
type LeadListResponse struct {
	Leads []lead.Lead `json:"leads"`
}

// LeadHistoryResponse wraps GET /api/leads/:id/history.
type LeadHistoryResponse struct {
	Lead lead.Lead `json:"lead"`
}

// UpdateStatusRequest is the body of POST /api/admission/leads/:id/status.
// POST is deliberate: the backend dodged PATCH restrictions on some proxies.
type UpdateStatusRequest struct {
	Status           lead.Status `json:"status" validate:"required"`
	Notes            string      `json:"notes,omitempty"`
	CourseID         string      `json:"courseId,omitempty"`
	BatchID          string      `json:"batchId,omitempty"`
	NextFollowUpDate string      `json:"nextFollowUpDate,omitempty"`
}

// FollowUpRequest is the body of POST /api/admission/leads/:id/follow-up.
// It appends to the follow-up log; it never changes the lead's status.
type FollowUpRequest struct {
	Note             string        `json:"note"`
	NextFollowUpDate string        `json:"nextFollowUpDate,omitempty"`
	Priority         lead.Priority `json:"priority,omitempty"`
}

// FeeStatus is the admission gate read, GET /api/admission/fees/status/:leadId.
type FeeStatus struct {
	HasApprovedFee bool   `json:"hasApprovedFee"`
	Message        string `json:"message,omitempty"`
}

// AdmissionFee mirrors the backend's fee record. Approval happens out of
// scope, in the accounting role.
type AdmissionFee struct {
	ID              string  `json:"id,omitempty"`
	LeadID          string  `json:"leadId"`
	CourseName      string  `json:"courseName"`
	TotalAmount     float64 `json:"totalAmount"`
	NowPaying       float64 `json:"nowPaying"`
	DueAmount       float64 `json:"dueAmount"`
	Method          string  `json:"method"`
	PaymentDate     string  `json:"paymentDate"`
	NextPaymentDate string  `json:"nextPaymentDate,omitempty"`
	Note            string  `json:"note,omitempty"`
	ApprovalStatus  string  `json:"approvalStatus,omitempty"`
}

// CreateFeeRequest is the body of POST /api/admission/fees.
type CreateFeeRequest struct {
	LeadID          string  `json:"leadId" validate:"required"`
	CourseName      string  `json:"courseName" validate:"required"`
	TotalAmount     float64 `json:"totalAmount" validate:"required,gt=0"`
	NowPaying       float64 `json:"nowPaying" validate:"gte=0"`
	DueAmount       float64 `json:"dueAmount" validate:"gte=0"`
	Method          string  `json:"method" validate:"required,oneof=Cash Bank bKash Nagad Card"`
	PaymentDate     string  `json:"paymentDate" validate:"required"`
	NextPaymentDate string  `json:"nextPaymentDate,omitempty"`
	Note            string  `json:"note,omitempty"`
}

// Course is a selection target for the admit dialog; its lifecycle is owned
// elsewhere.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Batch is a selection target for the admit dialog.
type Batch struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Course string `json:"course,omitempty"`
	Status string `json:"status,omitempty"`
}

// CourseListResponse wraps GET /api/courses.
type CourseListResponse struct {
	Courses []Course `json:"courses"`
}

// BatchListResponse wraps GET /api/batches.
type BatchListResponse struct {
	Batches []Batch `json:"batches"`
}
