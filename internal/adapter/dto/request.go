package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/asset"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/investment"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/ledger"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/transfer"
)

// OperationRequest creates or replaces an operation.
// Amount may be signed or a magnitude; the stored sign follows operation_type.
type OperationRequest struct {
	AssetID       string `json:"asset_id" validate:"required,uuid"`
	Amount        string `json:"amount" validate:"required,money"`
	OperationType string `json:"operation_type" validate:"required,oneof=income expense"`
	OperationDate string `json:"operation_date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID    string `json:"category_id" validate:"omitempty,uuid"`
	Description   string `json:"description" validate:"max=1000"`
}

// ToInput validates r and converts it to the ledger input
func (r *OperationRequest) ToInput() (ledger.OperationInput, error) {
	if err := Validate(r); err != nil {
		return ledger.OperationInput{}, err
	}

	return ledger.OperationInput{
		AssetID:     uuid.MustParse(r.AssetID),
		Amount:      mustDecimal(r.Amount),
		Type:        domain.OperationType(r.OperationType),
		Date:        optionalDate(r.OperationDate),
		CategoryID:  optionalID(r.CategoryID),
		Description: r.Description,
	}, nil
}

// ListOperationsRequest pages through top-level operations
type ListOperationsRequest struct {
	AssetID string `json:"asset_id" form:"asset_id" validate:"omitempty,uuid"`
	Limit   int    `json:"limit" form:"limit" validate:"gt=0,lte=1000"`
	Offset  int    `json:"offset" form:"offset" validate:"gte=0"`
}

// ToFilter validates r and converts it to a repository filter
func (r *ListOperationsRequest) ToFilter() (domain.OperationFilter, error) {
	if err := Validate(r); err != nil {
		return domain.OperationFilter{}, err
	}

	return domain.OperationFilter{
		AssetID: optionalID(r.AssetID),
		Limit:   r.Limit,
		Offset:  r.Offset,
	}, nil
}

// SplitItemRequest is one item of a split
type SplitItemRequest struct {
	CategoryID  string `json:"category_id" validate:"omitempty,uuid"`
	Amount      string `json:"amount" validate:"required,money"`
	Description string `json:"description" validate:"max=1000"`
}

// SplitRequest splits an operation into items
type SplitRequest struct {
	Items []SplitItemRequest `json:"items" validate:"required,dive"`
}

// ToItems validates r and converts it to split items
func (r *SplitRequest) ToItems() ([]domain.SplitItem, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	items := make([]domain.SplitItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.SplitItem{
			CategoryID:  optionalID(item.CategoryID),
			Amount:      mustDecimal(item.Amount),
			Description: item.Description,
		})
	}
	return items, nil
}

// AssetDescriptorRequest describes a new asset
type AssetDescriptorRequest struct {
	UserID        string `json:"user_id" validate:"omitempty,uuid"`
	AssetTypeID   string `json:"asset_type_id" validate:"required,uuid"`
	Name          string `json:"name" validate:"required,max=255"`
	Description   string `json:"description" validate:"max=1000"`
	AccountNumber string `json:"account_number" validate:"max=100"`
	Currency      string `json:"currency" validate:"omitempty,len=3"`
	SortOrder     int    `json:"sort_order"`
}

func (r *AssetDescriptorRequest) descriptor() asset.Descriptor {
	var userID uuid.UUID
	if id := optionalID(r.UserID); id != nil {
		userID = *id
	}

	return asset.Descriptor{
		UserID:        userID,
		AssetTypeID:   uuid.MustParse(r.AssetTypeID),
		Name:          r.Name,
		Description:   r.Description,
		AccountNumber: r.AccountNumber,
		Currency:      r.Currency,
		SortOrder:     r.SortOrder,
	}
}

// CreateAssetRequest creates an asset with its opening position
type CreateAssetRequest struct {
	AssetDescriptorRequest
	InitialValue         string `json:"initial_value" validate:"omitempty,money"`
	Quantity             string `json:"quantity" validate:"omitempty,quantity"`
	AveragePurchasePrice string `json:"average_purchase_price" validate:"omitempty,quantity"`
}

// ToInput validates r and converts it to the asset input
func (r *CreateAssetRequest) ToInput() (asset.CreateInput, error) {
	if err := Validate(r); err != nil {
		return asset.CreateInput{}, err
	}

	return asset.CreateInput{
		Descriptor:           r.descriptor(),
		InitialValue:         optionalDecimal(r.InitialValue),
		Quantity:             optionalDecimal(r.Quantity),
		AveragePurchasePrice: optionalDecimal(r.AveragePurchasePrice),
	}, nil
}

// UpdateAssetRequest replaces the descriptive fields of an asset
type UpdateAssetRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Description   string `json:"description" validate:"max=1000"`
	AccountNumber string `json:"account_number" validate:"max=100"`
	Currency      string `json:"currency" validate:"omitempty,len=3"`
	SortOrder     int    `json:"sort_order"`
}

// ToInput validates r and converts it to the asset update input
func (r *UpdateAssetRequest) ToInput() (asset.UpdateInput, error) {
	if err := Validate(r); err != nil {
		return asset.UpdateInput{}, err
	}

	return asset.UpdateInput{
		Name:          r.Name,
		Description:   r.Description,
		AccountNumber: r.AccountNumber,
		Currency:      r.Currency,
		SortOrder:     r.SortOrder,
	}, nil
}

// SetActiveRequest toggles an asset
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// TransferRequest moves value from a liquid asset to another asset
type TransferRequest struct {
	TransferType       string                  `json:"transfer_type" validate:"required"`
	FromAssetID        string                  `json:"from_asset_id" validate:"required,uuid"`
	ToAssetID          string                  `json:"to_asset_id" validate:"omitempty,uuid"`
	Amount             string                  `json:"amount" validate:"required,money"`
	OperationDate      string                  `json:"operation_date" validate:"omitempty,datetime=2006-01-02"`
	Description        string                  `json:"description" validate:"max=1000"`
	CategoryID         string                  `json:"category_id" validate:"omitempty,uuid"`
	InvestmentQuantity string                  `json:"investment_quantity" validate:"omitempty,quantity"`
	InterestAmount     string                  `json:"interest_amount" validate:"omitempty,money"`
	NewAsset           *AssetDescriptorRequest `json:"new_asset" validate:"omitempty"`
}

// ToRequest validates r and converts it to the orchestrator request.
// Transfer type checks are left to the orchestrator.
func (r *TransferRequest) ToRequest() (transfer.Request, error) {
	if err := Validate(r); err != nil {
		return transfer.Request{}, err
	}

	req := transfer.Request{
		Type:               transfer.Type(r.TransferType),
		FromAssetID:        uuid.MustParse(r.FromAssetID),
		ToAssetID:          optionalID(r.ToAssetID),
		Amount:             mustDecimal(r.Amount),
		Date:               optionalDate(r.OperationDate),
		Description:        r.Description,
		CategoryID:         optionalID(r.CategoryID),
		InvestmentQuantity: optionalDecimal(r.InvestmentQuantity),
		InterestAmount:     optionalDecimal(r.InterestAmount),
	}

	if r.NewAsset != nil {
		d := r.NewAsset.descriptor()
		req.NewAsset = &d
	}

	return req, nil
}

// CorrectBalanceRequest sets a liquid asset's balance
type CorrectBalanceRequest struct {
	TargetBalance string `json:"target_balance" validate:"required,money"`
}

// Target validates r and returns the target balance
func (r *CorrectBalanceRequest) Target() (decimal.Decimal, error) {
	if err := Validate(r); err != nil {
		return decimal.Zero, err
	}
	return mustDecimal(r.TargetBalance), nil
}

// TradeRequest records an investment buy or sell
type TradeRequest struct {
	AssetID         string `json:"asset_id" validate:"required,uuid"`
	TransactionType string `json:"transaction_type" validate:"required,oneof=buy sell"`
	Quantity        string `json:"quantity" validate:"required,quantity"`
	PricePerUnit    string `json:"price_per_unit" validate:"omitempty,quantity"`
	TotalValue      string `json:"total_value" validate:"omitempty,money"`
	TransactionDate string `json:"transaction_date" validate:"omitempty,datetime=2006-01-02"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// ToInput validates r and converts it to the investment input. One of
// price_per_unit and total_value is required.
func (r *TradeRequest) ToInput() (investment.TradeInput, error) {
	if err := Validate(r); err != nil {
		return investment.TradeInput{}, err
	}

	if r.PricePerUnit == "" && r.TotalValue == "" {
		return investment.TradeInput{}, domain.NewInvalidArgument("invalid request: price_per_unit or total_value is required")
	}

	return investment.TradeInput{
		Quantity:     mustDecimal(r.Quantity),
		PricePerUnit: mustDecimal(r.PricePerUnit),
		TotalValue:   mustDecimal(r.TotalValue),
		Date:         optionalDate(r.TransactionDate),
		Notes:        r.Notes,
	}, nil
}

// Asset returns the traded asset id. Call after ToInput.
func (r *TradeRequest) Asset() uuid.UUID {
	return uuid.MustParse(r.AssetID)
}

// Type returns the transaction type. Call after ToInput.
func (r *TradeRequest) Type() domain.InvestmentTransactionType {
	return domain.InvestmentTransactionType(r.TransactionType)
}

// ValuationRequest records a mark-to-market value
type ValuationRequest struct {
	AssetID       string `json:"asset_id" validate:"required,uuid"`
	Value         string `json:"value" validate:"required,money"`
	ValuationDate string `json:"valuation_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         string `json:"notes" validate:"max=1000"`
}

// Valuation validates r and converts it to a valuation entry
func (r *ValuationRequest) Valuation() (*domain.AssetValuation, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	return &domain.AssetValuation{
		AssetID: uuid.MustParse(r.AssetID),
		Date:    optionalDate(r.ValuationDate),
		Value:   mustDecimal(r.Value),
		Notes:   r.Notes,
	}, nil
}

// HashtagRequest adds a hashtag to the registry
type HashtagRequest struct {
	Name string `json:"name" validate:"required"`
}
