package models

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Tags is an ordered tag set stored as a PostgreSQL text[].
type Tags pq.StringArray

func (t Tags) Value() (driver.Value, error) { return pq.StringArray(t).Value() }

func (t *Tags) Scan(src interface{}) error { return (*pq.StringArray)(t).Scan(src) }

func (Tags) GormDataType() string { return "text[]" }

// GormDBDataType keeps the array type on PostgreSQL and falls back to text elsewhere.
func (Tags) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// TutorListing is a tutoring offer posted by a student.
type TutorListing struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	// Name and Phone are copied from the owner when the offer is created.
	Name          string    `gorm:"type:varchar(100)" json:"name"`
	Phone         string    `gorm:"type:varchar(32)" json:"phone"`
	Subjects      Tags      `json:"subjects"`
	Salary        int       `gorm:"not null;index" json:"salary"`
	SalaryNote    string    `gorm:"type:varchar(255)" json:"salary_note"`
	Intro         string    `gorm:"type:text" json:"intro"`
	AvailableDays Tags      `json:"available_days"`
	StartTime     string    `gorm:"type:varchar(16)" json:"start_time"`
	EndTime       string    `gorm:"type:varchar(16)" json:"end_time"`
	IsMatched     bool      `gorm:"not null;default:false;index" json:"is_matched"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (TutorListing) TableName() string { return "tutors" }

// TutorRequest is a request for a tutor posted by a parent.
type TutorRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ChildName string    `gorm:"type:varchar(100)" json:"child_name"`
	Phone     string    `gorm:"type:varchar(32)" json:"phone"`
	District  string    `gorm:"type:varchar(64);index" json:"district"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	Salary    int       `gorm:"not null;index" json:"salary"`
	Subjects  Tags      `json:"subjects"`
	Days      Tags      `json:"days"`
	Note      string    `gorm:"type:text" json:"note"`
	IsMatched bool      `gorm:"not null;default:false;index" json:"is_matched"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TutorRequest) TableName() string { return "find_tutors" }

// ListingKind tells the filter which table to search.
type ListingKind string

const (
	ListingOffer   ListingKind = "do"
	ListingRequest ListingKind = "find"
)

// AnyDistrict disables the district filter.
const AnyDistrict = "不限"

// ListingFilter narrows public listings. Zero fields do not filter.
type ListingFilter struct {
	Kind      ListingKind
	Subjects  []string // any-of
	District  string   // requests only
	MinSalary int
}
