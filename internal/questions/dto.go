package questions

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/pkg/db/models"
)

// CreateQuestionInput captures a customer's product inquiry.
type CreateQuestionInput struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
	Nickname  string
	Title     string
	Content   string
	Secret    bool
}

// AnswerView is the owner's reply embedded in question views.
type AnswerView struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionView is the product page read model. Secret questions from other
// users keep their metadata but hide the text.
type QuestionView struct {
	ID        uuid.UUID   `json:"id"`
	ProductID uuid.UUID   `json:"product_id"`
	Nickname  string      `json:"nickname"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Secret    bool        `json:"secret"`
	Masked    bool        `json:"masked"`
	IsRead    bool        `json:"is_read"`
	Answered  bool        `json:"answered"`
	Answer    *AnswerView `json:"answer,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

const maskedText = "This question is private."

func questionView(question models.Question, viewerID uuid.UUID) QuestionView {
	view := QuestionView{
		ID:        question.ID,
		ProductID: question.ProductID,
		Nickname:  question.Nickname,
		Title:     question.Title,
		Content:   question.Content,
		Secret:    question.Secret,
		IsRead:    question.IsRead,
		Answered:  question.Answer != nil,
		CreatedAt: question.CreatedAt,
	}
	if question.Answer != nil {
		view.Answer = &AnswerView{
			Content:   question.Answer.Content,
			CreatedAt: question.Answer.CreatedAt,
		}
	}
	if question.Secret && question.UserID != viewerID {
		view.Masked = true
		view.Title = maskedText
		view.Content = ""
		view.Answer = nil
	}
	return view
}
