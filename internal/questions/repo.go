package questions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db/models"
)

// Repository handles question and answer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to question operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new question row.
func (r *Repository) Create(ctx context.Context, question *models.Question) error {
	if question == nil {
		return fmt.Errorf("question is required")
	}
	return r.db.WithContext(ctx).Create(question).Error
}

// FindByID loads a question with its answer, if any.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).
		Preload("Answer").
		Where("id = ?", id).
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Save persists the provided question.
func (r *Repository) Save(ctx context.Context, question *models.Question) error {
	if question == nil {
		return fmt.Errorf("question is required")
	}
	return r.db.WithContext(ctx).Omit("Answer").Save(question).Error
}

// CreateAnswer inserts the owner's reply. The question id primary key keeps
// replies to one per question.
func (r *Repository) CreateAnswer(ctx context.Context, answer *models.Answer) error {
	if answer == nil {
		return fmt.Errorf("answer is required")
	}
	return r.db.WithContext(ctx).Create(answer).Error
}

// ListByProduct returns the product's questions, newest first, answers included.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Question, error) {
	var rows []models.Question
	err := r.db.WithContext(ctx).
		Preload("Answer").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns the user's questions, newest first, answers included.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Question, error) {
	var rows []models.Question
	err := r.db.WithContext(ctx).
		Preload("Answer").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
