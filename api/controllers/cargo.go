package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bloombay/store-backend/api/responses"
	"github.com/bloombay/store-backend/api/validators"
	"github.com/bloombay/store-backend/internal/cargo"
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/logger"
)

type registerCargoRequest struct {
	Flowers []registerCargoFlower `json:"flowers" validate:"required,min=1,dive"`
}

type registerCargoFlower struct {
	FlowerID   uuid.UUID `json:"flower_id" validate:"required"`
	FlowerName string    `json:"flower_name" validate:"required,max=128"`
	Stock      int64     `json:"stock" validate:"gte=0"`
}

type modifyStockRequest struct {
	Items []modifyStockItem `json:"items" validate:"required,min=1,dive"`
}

type modifyStockItem struct {
	FlowerID uuid.UUID `json:"flower_id" validate:"required"`
	Stock    int64     `json:"stock" validate:"gte=0"`
}

// RegisterCargo seeds the owner's stock rows at onboarding.
func RegisterCargo(svc cargo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cargo service unavailable"))
			return
		}

		storeID, err := activeStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req registerCargoRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flowers := make([]cargo.RegisterFlowerInput, 0, len(req.Flowers))
		for _, flower := range req.Flowers {
			flowers = append(flowers, cargo.RegisterFlowerInput{
				FlowerID:   flower.FlowerID,
				FlowerName: validators.SanitizeString(flower.FlowerName, 128),
				Stock:      flower.Stock,
			})
		}

		if err := svc.Register(r.Context(), storeID, flowers); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, nil)
	}
}

// ModifyStock applies a batch of absolute stock targets.
func ModifyStock(svc cargo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cargo service unavailable"))
			return
		}

		storeID, err := activeStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req modifyStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]cargo.StockModifyInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, cargo.StockModifyInput{
				FlowerID: item.FlowerID,
				Stock:    item.Stock,
			})
		}

		if err := svc.ModifyStock(r.Context(), storeID, items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// ListCargo returns the owner's current stock.
func ListCargo(svc cargo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cargo service unavailable"))
			return
		}

		storeID, err := activeStoreID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListStock(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
