package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is a catalog entry users practice against.
type Question struct {
	ID        uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string        `json:"title" gorm:"size:512;not null;index"`
	Body      string        `json:"body" gorm:"type:text;not null"`
	Tags      []string      `json:"tags" gorm:"-"`
	TagRows   []QuestionTag `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"index"`
}

// QuestionTag stores one tag of a question.
type QuestionTag struct {
	QuestionID uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name       string    `gorm:"size:64;primaryKey;index"`
}

// BeforeCreate sets UUID before creating the record.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// AfterFind copies stored tag rows into Tags.
func (q *Question) AfterFind(tx *gorm.DB) error {
	q.Tags = make([]string, 0, len(q.TagRows))
	for _, t := range q.TagRows {
		q.Tags = append(q.Tags, t.Name)
	}
	return nil
}

// QuestionSummary is the subset of a question embedded in attempt views.
type QuestionSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	Tags  []string  `json:"tags"`
}

// Summary projects q to a QuestionSummary.
func (q *Question) Summary() *QuestionSummary {
	return &QuestionSummary{ID: q.ID, Title: q.Title, Body: q.Body, Tags: q.Tags}
}
