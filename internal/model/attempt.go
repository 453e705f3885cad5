package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultAttemptType is used when an attempt is submitted without a type.
const DefaultAttemptType = "user"

// Attempt is an answer submitted by a user. Attempts are never updated.
type Attempt struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:char(36);not null;index"`
	QuestionID *uuid.UUID `json:"question_id" gorm:"type:char(36);index"`
	Type       string     `json:"type" gorm:"size:64;not null"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AttemptListItem is an attempt as listed in a user's history.
type AttemptListItem struct {
	Attempt
	QuestionTitle string `json:"question_title"`
}

// AttemptDetail is an attempt with the question it answers.
type AttemptDetail struct {
	Attempt
	Question *QuestionSummary `json:"question"`
}
