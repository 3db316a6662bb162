package stores

import (
	"github.com/google/uuid"

	"github.com/bloombay/store-backend/pkg/db/models"
	"github.com/bloombay/store-backend/pkg/enums"
)

// CreateStoreInput captures the fields an owner supplies when opening a store.
type CreateStoreInput struct {
	Code          string
	Name          string
	DetailInfo    *string
	ThumbnailURL  *string
	Phone         *string
	Bank          *string
	AccountNumber *string
	Address       *string
}

// UpdateStoreInput is a full overwrite of the store's editable profile.
type UpdateStoreInput struct {
	Name          string
	DetailInfo    *string
	ThumbnailURL  *string
	Phone         *string
	Bank          *string
	AccountNumber *string
	Address       *string
}

// UpdateDeliveryPolicyInput overwrites the store's delivery pricing.
type UpdateDeliveryPolicyInput struct {
	FreeDeliveryMinPrice int64
	DeliveryPrice        int64
	RegionSurcharge      int64
}

// DeliveryPolicyView is the pricing block embedded in store views.
type DeliveryPolicyView struct {
	FreeDeliveryMinPrice int64 `json:"free_delivery_min_price"`
	DeliveryPrice        int64 `json:"delivery_price"`
	RegionSurcharge      int64 `json:"region_surcharge"`
}

// PublicStoreView is the customer-facing store profile.
type PublicStoreView struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	DetailInfo     *string            `json:"detail_info,omitempty"`
	ThumbnailURL   *string            `json:"thumbnail_url,omitempty"`
	Phone          *string            `json:"phone,omitempty"`
	Address        *string            `json:"address,omitempty"`
	DeliveryPolicy DeliveryPolicyView `json:"delivery_policy"`
}

// OwnerStoreView is the owner's full profile, settlement fields included.
type OwnerStoreView struct {
	ID             uuid.UUID          `json:"id"`
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	DetailInfo     *string            `json:"detail_info,omitempty"`
	ThumbnailURL   *string            `json:"thumbnail_url,omitempty"`
	Phone          *string            `json:"phone,omitempty"`
	Bank           *string            `json:"bank,omitempty"`
	AccountNumber  *string            `json:"account_number,omitempty"`
	Address        *string            `json:"address,omitempty"`
	Status         enums.StoreStatus  `json:"status"`
	DeliveryPolicy DeliveryPolicyView `json:"delivery_policy"`
}

func policyView(policy models.DeliveryPolicy) DeliveryPolicyView {
	return DeliveryPolicyView{
		FreeDeliveryMinPrice: policy.FreeDeliveryMinPrice,
		DeliveryPrice:        policy.DeliveryPrice,
		RegionSurcharge:      policy.RegionSurcharge,
	}
}

func publicView(store models.Store, policy models.DeliveryPolicy) PublicStoreView {
	return PublicStoreView{
		ID:             store.ID,
		Name:           store.Name,
		DetailInfo:     store.DetailInfo,
		ThumbnailURL:   store.ThumbnailURL,
		Phone:          store.Phone,
		Address:        store.Address,
		DeliveryPolicy: policyView(policy),
	}
}

func ownerView(store models.Store, policy models.DeliveryPolicy) OwnerStoreView {
	return OwnerStoreView{
		ID:             store.ID,
		Code:           store.Code,
		Name:           store.Name,
		DetailInfo:     store.DetailInfo,
		ThumbnailURL:   store.ThumbnailURL,
		Phone:          store.Phone,
		Bank:           store.Bank,
		AccountNumber:  store.AccountNumber,
		Address:        store.Address,
		Status:         store.Status,
		DeliveryPolicy: policyView(policy),
	}
}
