package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/api/responses"
	"github.com/bloombay/store-backend/api/validators"
	"github.com/bloombay/store-backend/internal/questions"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/logger"
)

type createQuestionRequest struct {
	StoreID   uuid.UUID `json:"store_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Nickname  string    `json:"nickname" validate:"required,max=64"`
	Title     string    `json:"title" validate:"required,max=256"`
	Content   string    `json:"content" validate:"required,max=2000"`
	Secret    bool      `json:"secret"`
}

type answerQuestionRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// CreateQuestion records a customer inquiry about a product.
func CreateQuestion(svc questions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "question service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createQuestionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		question, err := svc.CreateQuestion(r.Context(), userID, questions.CreateQuestionInput{
			StoreID:   req.StoreID,
			ProductID: req.ProductID,
			Nickname:  validators.SanitizeString(req.Nickname, 64),
			Title:     validators.SanitizeString(req.Title, 256),
			Content:   validators.SanitizeString(req.Content, 2000),
			Secret:    req.Secret,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, question)
	}
}

// AnswerQuestion records the owner's reply.
func AnswerQuestion(svc questions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "question service unavailable"))
			return
		}

		storeID, err := activeStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		questionID, err := validators.ParseUUIDParam(r, "questionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req answerQuestionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AnswerQuestion(r.Context(), storeID, questionID, validators.SanitizeString(req.Content, 2000)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ListProductQuestions returns the product's Q&A with secret entries masked.
func ListProductQuestions(svc questions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "question service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListByProduct(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// MyQuestions returns the caller's own inquiries.
func MyQuestions(svc questions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "question service unavailable"))
			return
		}

		userID, err := principalUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// MarkQuestionRead flags a question as seen by the owner.
func MarkQuestionRead(svc questions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "question service unavailable"))
			return
		}

		storeID, err := activeStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		questionID, err := validators.ParseUUIDParam(r, "questionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), storeID, questionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
