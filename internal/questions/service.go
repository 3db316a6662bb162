package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bloombay/store-backend/pkg/db"
	"github.com/bloombay/store-backend/pkg/db/models"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
)

const answerConstraint = "answers_pkey"

type questionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	Save(ctx context.Context, question *models.Question) error
	CreateAnswer(ctx context.Context, answer *models.Answer) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Question, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Question, error)
}

// Service exposes the product Q&A operations.
type Service interface {
	CreateQuestion(ctx context.Context, userID uuid.UUID, input CreateQuestionInput) (*models.Question, error)
	AnswerQuestion(ctx context.Context, storeID, questionID uuid.UUID, content string) error
	ListByProduct(ctx context.Context, viewerID, productID uuid.UUID) ([]QuestionView, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]QuestionView, error)
	MarkRead(ctx context.Context, storeID, questionID uuid.UUID) error
}

type service struct {
	repo questionRepository
}

// NewService builds a question service.
func NewService(repo questionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("question repository required")
	}
	return &service{repo: repo}, nil
}

// CreateQuestion records a customer inquiry about a product.
func (s *service) CreateQuestion(ctx context.Context, userID uuid.UUID, input CreateQuestionInput) (*models.Question, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.StoreID == uuid.Nil || input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store and product ids are required")
	}
	if input.Title == "" || input.Content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and content are required")
	}

	question := &models.Question{
		ID:        uuid.New(),
		StoreID:   input.StoreID,
		ProductID: input.ProductID,
		UserID:    userID,
		Nickname:  input.Nickname,
		Title:     input.Title,
		Content:   input.Content,
		Secret:    input.Secret,
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create question")
	}
	return question, nil
}

// AnswerQuestion records the owner's reply and marks the question read. A
// question takes exactly one answer.
func (s *service) AnswerQuestion(ctx context.Context, storeID, questionID uuid.UUID, content string) error {
	if content == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "answer content is required")
	}

	question, err := s.loadStoreQuestion(ctx, storeID, questionID)
	if err != nil {
		return err
	}
	if question.Answer != nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "question already answered")
	}

	answer := &models.Answer{
		QuestionID: question.ID,
		Content:    content,
	}
	if err := s.repo.CreateAnswer(ctx, answer); err != nil {
		if db.IsUniqueViolation(err, answerConstraint) {
			return pkgerrors.New(pkgerrors.CodeConflict, "question already answered")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create answer")
	}

	if !question.IsRead {
		question.IsRead = true
		if err := s.repo.Save(ctx, question); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save question")
		}
	}
	return nil
}

// ListByProduct returns the product's questions with secret entries masked
// for everyone but their author.
func (s *service) ListByProduct(ctx context.Context, viewerID, productID uuid.UUID) ([]QuestionView, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list questions")
	}
	views := make([]QuestionView, 0, len(rows))
	for _, row := range rows {
		views = append(views, questionView(row, viewerID))
	}
	return views, nil
}

// ListMine returns the user's own questions, never masked.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]QuestionView, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list questions")
	}
	views := make([]QuestionView, 0, len(rows))
	for _, row := range rows {
		views = append(views, questionView(row, userID))
	}
	return views, nil
}

// MarkRead flags the question as seen by the store owner.
func (s *service) MarkRead(ctx context.Context, storeID, questionID uuid.UUID) error {
	question, err := s.loadStoreQuestion(ctx, storeID, questionID)
	if err != nil {
		return err
	}
	if question.IsRead {
		return nil
	}
	question.IsRead = true
	if err := s.repo.Save(ctx, question); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save question")
	}
	return nil
}

func (s *service) loadStoreQuestion(ctx context.Context, storeID, questionID uuid.UUID) (*models.Question, error) {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load question")
	}
	if question.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
	}
	return question, nil
}
