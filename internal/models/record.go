package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// RecordStatus is the life-stage tag of a student record. Earlier revisions
// of the database used `Student` and `Undergraduate`; those values are
// reconciled to `Active` by a migration.
type RecordStatus string

const (
	StatusActive   RecordStatus = "Active"
	StatusGraduate RecordStatus = "Graduate"
	StatusInactive RecordStatus = "Inactive"
)

// Statuses lists the current enumeration in display order.
func Statuses() []RecordStatus {
	return []RecordStatus{StatusActive, StatusGraduate, StatusInactive}
}

// StudentRecord is the primary persisted entity. The table keeps the name
// `credentials` from the password-manager lineage the application was forked
// from, which is also why the id-number lives in the `username` column and a
// copy of the first name in the `password` column.
type StudentRecord struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	IDNumber    string                      `gorm:"column:username;not null" json:"id_number"`
	LegacyName  string                      `gorm:"column:password" json:"-"`
	FirstName   string                      `gorm:"column:first_name" json:"first_name"`
	MiddleName  string                      `gorm:"column:middle_name" json:"middle_name"`
	LastName    string                      `gorm:"column:last_name" json:"last_name"`
	Status      RecordStatus                `gorm:"column:category;size:32;default:Active" json:"status"`
	Attachments datatypes.JSONSlice[string] `gorm:"column:attachments" json:"attachments"`
	OwnerID     uint                        `gorm:"column:owner_id;index;not null" json:"owner_id"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`

	// Graduate-only fields. Stored for every row regardless of status; the
	// presentation layer hides them unless Status is Graduate.
	LastSchoolYear string `gorm:"column:last_school_year" json:"last_school_year"`
	ContactNumber  string `gorm:"column:contact_number" json:"contact_number"`
	SONumber       string `gorm:"column:so_number" json:"so_number"`
	DateIssued     string `gorm:"column:date_issued" json:"date_issued"`
	SeriesYear     string `gorm:"column:series_year" json:"series_year"`
	LRN            string `gorm:"column:lrn" json:"lrn"`
}

// TableName preserves the schema of the original database file.
func (StudentRecord) TableName() string {
	return "credentials"
}

// AttachmentList converts a plain path slice into the stored JSON column type.
func AttachmentList(paths []string) datatypes.JSONSlice[string] {
	return datatypes.NewJSONSlice(paths)
}

// FullName joins the name parts, skipping an absent middle name.
func (r StudentRecord) FullName() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{r.FirstName, r.MiddleName, r.LastName} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, " ")
}

// DeriveTitle builds the display title stored alongside the record.
func (r StudentRecord) DeriveTitle() string {
	return fmt.Sprintf("%s %s (%s)", r.FirstName, r.LastName, r.IDNumber)
}

// IsGraduate reports whether the graduate-only fields are meaningful.
func (r StudentRecord) IsGraduate() bool {
	return r.Status == StatusGraduate
}
