package database

import "time"

// User is a doctor account. AuthUserID links the row to the external identity
// provider; SignaturePath points at the stored signature image, if any.
type User struct {
	ID            int64      `json:"id"`
	AuthUserID    string     `json:"auth_user_id"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	FirstName     *string    `json:"first_name,omitempty"`
	LastName      *string    `json:"last_name,omitempty"`
	SignaturePath *string    `json:"signature_path,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Submission is one filled questionnaire.
type Submission struct {
	ID                string     `json:"id"`
	SecureKey         string     `json:"secure_key"`
	Status            string     `json:"status"`
	SubmittedByUserID *int64     `json:"submitted_by_user_id,omitempty"`
	SubmissionCount   int        `json:"submission_count"`
	LockedByUserID    *int64     `json:"locked_by_user_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// Answer is one response to one question within a submission.
type Answer struct {
	ID              int64     `json:"id"`
	SubmissionID    string    `json:"submission_id"`
	QuestionID      int64     `json:"question_id"`
	Value           string    `json:"value"`
	AdditionalNotes *string   `json:"additional_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Question is one questionnaire item. Questions form a tree via ParentID and
// group under sections.
type Question struct {
	ID         int64   `json:"id"`
	SectionID  *int64  `json:"section_id,omitempty"`
	ParentID   *int64  `json:"parent_id,omitempty"`
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	OrderIndex int     `json:"order_index"`
	IsRequired bool    `json:"is_required"`
	Notes      *string `json:"notes,omitempty"`
}

// Section groups questions on the questionnaire form.
type Section struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	OrderIndex  int     `json:"order_index"`
}
