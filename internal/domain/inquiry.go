package domain

import (
	"time"
)

// TopicInquiriesChanged is published on every inquiry insert or update.
const TopicInquiriesChanged = "inquiries.changed"

// Inquiry statuses form the lead workflow: New -> In Progress / Contacted -> Closed.
const (
	InquiryStatusNew        = "New"
	InquiryStatusInProgress = "In Progress"
	InquiryStatusContacted  = "Contacted"
	InquiryStatusClosed     = "Closed"
)

// InquiryStatuses lists the accepted status values in workflow order.
var InquiryStatuses = []string{
	InquiryStatusNew,
	InquiryStatusInProgress,
	InquiryStatusContacted,
	InquiryStatusClosed,
}

// Inquiry is a contact-form lead. Rows are created by the public form and
// mutated only through admin status/assignment updates; they are never
// deleted.
type Inquiry struct {
	ID              int64     `json:"id,string" form:"id"`
	Name            string    `json:"name" form:"name" csv:"name"`
	Email           string    `gorm:"index" json:"email" form:"email" csv:"email"`
	Company         string    `json:"company" form:"company" csv:"company"`
	Phone           string    `json:"phone" form:"phone" csv:"phone"`
	Location        string    `json:"location" form:"location" csv:"location"`
	ProductInterest string    `json:"product_interest" form:"product_interest" csv:"product_interest"`
	Message         string    `gorm:"type:text" json:"message" form:"message" csv:"message"`
	AttachmentURL   string    `json:"attachment_url" form:"attachment_url" csv:"attachment_url"`
	Status          string    `gorm:"index" json:"status" form:"status" csv:"status"`
	AssignedTo      string    `gorm:"index" json:"assigned_to" form:"assigned_to" csv:"assigned_to"`
	CreatedAt       time.Time `json:"created_at" csv:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" csv:"-"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

// ValidInquiryStatus reports whether s is one of the workflow statuses.
func ValidInquiryStatus(s string) bool {
	for _, v := range InquiryStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// MotivationQuote caches the generated quote of the day for the admin
// dashboard, keyed by Day (YYYY-MM-DD).
type MotivationQuote struct {
	ID        int64     `json:"id,string"`
	Day       string    `gorm:"index" json:"day"`
	Quote     string    `json:"quote"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func (MotivationQuote) TableName() string {
	return "motivation_quotes"
}
