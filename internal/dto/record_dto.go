package dto

import "time"

// GraduateDetails groups the fields that are only meaningful when a record's
// status is Graduate. Values are stored regardless of status and hidden by
// the presentation layer otherwise.
type GraduateDetails struct {
	LastSchoolYear string `json:"last_school_year"`
	ContactNumber  string `json:"contact_number"`
	SONumber       string `json:"so_number"`
	DateIssued     string `json:"date_issued"`
	SeriesYear     string `json:"series_year"`
	LRN            string `json:"lrn"`
}

// CreateRecordRequest carries the add-form fields. ID number and first/last
// name are mandatory; everything else is optional.
type CreateRecordRequest struct {
	IDNumber   string          `json:"id_number" validate:"required"`
	FirstName  string          `json:"first_name" validate:"required"`
	MiddleName string          `json:"middle_name"`
	LastName   string          `json:"last_name" validate:"required"`
	Status     string          `json:"status" validate:"omitempty,oneof=Active Graduate Inactive"`
	Graduate   GraduateDetails `json:"graduate"`
}

// UpdateRecordRequest carries the edit-form fields.
type UpdateRecordRequest struct {
	IDNumber   string          `json:"id_number" validate:"required"`
	FirstName  string          `json:"first_name" validate:"required"`
	MiddleName string          `json:"middle_name"`
	LastName   string          `json:"last_name" validate:"required"`
	Status     string          `json:"status" validate:"omitempty,oneof=Active Graduate Inactive"`
	Graduate   GraduateDetails `json:"graduate"`
}

// ListRecordsQuery narrows a listing. Status accepts the enumeration values
// plus `All`, which behaves exactly like no filter.
type ListRecordsQuery struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=All Active Graduate Inactive"`
}

// RecordResponse is the public projection of a student record.
type RecordResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	IDNumber    string           `json:"id_number"`
	FirstName   string           `json:"first_name"`
	MiddleName  string           `json:"middle_name"`
	LastName    string           `json:"last_name"`
	FullName    string           `json:"full_name"`
	Status      string           `json:"status"`
	Attachments []string         `json:"attachments"`
	Graduate    *GraduateDetails `json:"graduate,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// RemoveAttachmentRequest identifies a stored attachment by its path.
type RemoveAttachmentRequest struct {
	Path string `json:"path" validate:"required"`
}

// DeleteRecordResponse reports the row deletion plus the aggregated outcome
// of the best-effort attachment cleanup.
type DeleteRecordResponse struct {
	ID                 uint     `json:"id"`
	RemovedAttachments int      `json:"removed_attachments"`
	MissingAttachments int      `json:"missing_attachments"`
	FailedAttachments  []string `json:"failed_attachments,omitempty"`
}
