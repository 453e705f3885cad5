package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"interviewprep/internal/model"
)

// QuestionFilter narrows question listings and practice sampling.
// Tags match when a question carries any of them.
type QuestionFilter struct {
	Query string
	Tags  []string
}

// QuestionSort orders question listings. Field must be a column name.
type QuestionSort struct {
	Field string
	Desc  bool
}

// QuestionChanges holds the fields of a partial question update.
type QuestionChanges struct {
	Title *string
	Body  *string
	Tags  *[]string
}

// Empty reports whether no field would change.
func (c QuestionChanges) Empty() bool {
	return c.Title == nil && c.Body == nil && c.Tags == nil
}

// QuestionRepository defines question persistence operations.
type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	FindByTitle(ctx context.Context, title string) (*model.Question, error)
	List(ctx context.Context, filter QuestionFilter, sort QuestionSort, page Page) ([]model.Question, int64, error)
	Random(ctx context.Context, filter QuestionFilter) (*model.Question, error)
	Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	Update(ctx context.Context, id uuid.UUID, changes QuestionChanges) (*model.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func tagRows(id uuid.UUID, tags []string) []model.QuestionTag {
	seen := make(map[string]struct{}, len(tags))
	rows := make([]model.QuestionTag, 0, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		rows = append(rows, model.QuestionTag{QuestionID: id, Name: t})
	}
	return rows
}

// Create creates a new question with its tags.
func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	question.TagRows = tagRows(question.ID, question.Tags)
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return storeErr("create question", err)
	}
	question.Tags = make([]string, 0, len(question.TagRows))
	for _, t := range question.TagRows {
		question.Tags = append(question.Tags, t.Name)
	}
	return nil
}

// FindByID finds a question by ID.
func (r *questionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).Preload("TagRows").Where("id = ?", id).First(&question).Error; err != nil {
		return nil, storeErr("find question", err)
	}
	return &question, nil
}

// FindByTitle finds a question by its exact title.
func (r *questionRepository) FindByTitle(ctx context.Context, title string) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).Preload("TagRows").Where("title = ?", title).First(&question).Error; err != nil {
		return nil, storeErr("find question by title", err)
	}
	return &question, nil
}

func (r *questionRepository) filtered(ctx context.Context, filter QuestionFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Question{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(body) LIKE ?)", like, like)
	}
	if len(filter.Tags) > 0 {
		tagged := r.db.WithContext(ctx).Model(&model.QuestionTag{}).
			Select("question_id").Where("name IN ?", filter.Tags)
		tx = tx.Where("id IN (?)", tagged)
	}
	return tx
}

// List returns one page of questions matching filter and the total match count.
func (r *questionRepository) List(ctx context.Context, filter QuestionFilter, sort QuestionSort, page Page) ([]model.Question, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, storeErr("count questions", err)
	}

	var questions []model.Question
	err := r.filtered(ctx, filter).
		Preload("TagRows").
		Order(clause.OrderByColumn{Column: clause.Column{Name: sort.Field}, Desc: sort.Desc}).
		Order("id").
		Offset(page.Offset()).Limit(page.Size).
		Find(&questions).Error
	if err != nil {
		return nil, 0, storeErr("list questions", err)
	}
	return questions, total, nil
}

// Random samples one question matching filter.
func (r *questionRepository) Random(ctx context.Context, filter QuestionFilter) (*model.Question, error) {
	var question model.Question
	err := r.filtered(ctx, filter).
		Preload("TagRows").
		Order(randomOrder(r.db)).
		Take(&question).Error
	if err != nil {
		return nil, storeErr("sample question", err)
	}
	return &question, nil
}

func randomOrder(db *gorm.DB) string {
	if db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}

// Titles maps question ids to titles. Unknown ids are absent from the result.
func (r *questionRepository) Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	var rows []struct {
		ID    uuid.UUID
		Title string
	}
	err := r.db.WithContext(ctx).Model(&model.Question{}).
		Select("id", "title").Where("id IN ?", ids).Scan(&rows).Error
	if err != nil {
		return nil, storeErr("load question titles", err)
	}
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}

// Update applies changes and bumps updated_at. Tags, when given, replace the stored set.
func (r *questionRepository) Update(ctx context.Context, id uuid.UUID, changes QuestionChanges) (*model.Question, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"updated_at": time.Now()}
		if changes.Title != nil {
			updates["title"] = *changes.Title
		}
		if changes.Body != nil {
			updates["body"] = *changes.Body
		}
		res := tx.Model(&model.Question{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if changes.Tags != nil {
			if err := tx.Where("question_id = ?", id).Delete(&model.QuestionTag{}).Error; err != nil {
				return err
			}
			if rows := tagRows(id, *changes.Tags); len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("update question", err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes a question with its tags and sample answers.
func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.QuestionTag{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Question{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return storeErr("delete question", err)
}
