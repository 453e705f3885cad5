package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultAnswerType is used when a sample answer is created without a type.
const DefaultAnswerType = "student"

// Answer is a sample answer attached to a question.
type Answer struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	QuestionID uuid.UUID `json:"question_id" gorm:"type:char(36);not null;index"`
	Type       string    `json:"type" gorm:"size:64;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	Question *Question `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
