package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/transfer"
)

// OperationResponse is the wire form of an operation. Monetary values are
// decimal strings.
type OperationResponse struct {
	ID                string    `json:"id"`
	AssetID           string    `json:"asset_id"`
	Amount            string    `json:"amount"`
	OperationType     string    `json:"operation_type"`
	OperationDate     string    `json:"operation_date"`
	CategoryID        *string   `json:"category_id"`
	Description       string    `json:"description"`
	ParentOperationID *string   `json:"parent_operation_id"`
	IsSplit           bool      `json:"is_split"`
	LinkedOperationID *string   `json:"linked_operation_id"`
	Hashtags          []string  `json:"hashtags"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewOperationResponse converts an operation
func NewOperationResponse(op *domain.Operation) OperationResponse {
	hashtags := op.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}

	return OperationResponse{
		ID:                op.ID.String(),
		AssetID:           op.AssetID.String(),
		Amount:            op.Amount.String(),
		OperationType:     string(op.Type),
		OperationDate:     formatDate(op.Date),
		CategoryID:        formatID(op.CategoryID),
		Description:       op.Description,
		ParentOperationID: formatID(op.ParentOperationID),
		IsSplit:           op.IsSplit,
		LinkedOperationID: formatID(op.LinkedOperationID),
		Hashtags:          hashtags,
		CreatedAt:         op.CreatedAt,
	}
}

// NewOperationResponses converts a list of operations
func NewOperationResponses(ops []*domain.Operation) []OperationResponse {
	out := make([]OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, NewOperationResponse(op))
	}
	return out
}

// OperationListResponse is one page of operations
type OperationListResponse struct {
	Operations []OperationResponse `json:"operations"`
	TotalCount int                 `json:"total_count"`
}

// AssetResponse is the wire form of an asset
type AssetResponse struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	AssetTypeID          string    `json:"asset_type_id"`
	Category             string    `json:"category"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	AccountNumber        string    `json:"account_number"`
	Quantity             *string   `json:"quantity"`
	AveragePurchasePrice *string   `json:"average_purchase_price"`
	CurrentValuation     *string   `json:"current_valuation"`
	Currency             string    `json:"currency"`
	IsActive             bool      `json:"is_active"`
	SortOrder            int       `json:"sort_order"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewAssetResponse converts an asset
func NewAssetResponse(a *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:                   a.ID.String(),
		UserID:               a.UserID.String(),
		AssetTypeID:          a.AssetTypeID.String(),
		Category:             string(a.Category),
		Name:                 a.Name,
		Description:          a.Description,
		AccountNumber:        a.AccountNumber,
		Quantity:             formatNullDecimal(a.Quantity),
		AveragePurchasePrice: formatNullDecimal(a.AveragePurchasePrice),
		CurrentValuation:     formatNullDecimal(a.CurrentValuation()),
		Currency:             a.Currency,
		IsActive:             a.IsActive,
		SortOrder:            a.SortOrder,
		CreatedAt:            a.CreatedAt,
	}
}

// NewAssetResponses converts a list of assets
func NewAssetResponses(assets []*domain.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, NewAssetResponse(a))
	}
	return out
}

// AssetTypeResponse is the wire form of an asset type
type AssetTypeResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	AllowsOperations bool   `json:"allows_operations"`
}

// NewAssetTypeResponses converts the asset type registry
func NewAssetTypeResponses(types []*domain.AssetType) []AssetTypeResponse {
	out := make([]AssetTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, AssetTypeResponse{
			ID:               t.ID.String(),
			Name:             t.Name,
			Category:         string(t.Category),
			AllowsOperations: t.AllowsOperations,
		})
	}
	return out
}

// BalanceResponse carries an asset balance
type BalanceResponse struct {
	AssetID string `json:"asset_id"`
	Balance string `json:"balance"`
}

// NewBalanceResponse builds a balance response
func NewBalanceResponse(assetID uuid.UUID, balance decimal.Decimal) BalanceResponse {
	return BalanceResponse{AssetID: assetID.String(), Balance: balance.String()}
}

// TransferResponse lists the rows written by a transfer
type TransferResponse struct {
	FromOperationID         string  `json:"from_operation_id"`
	ToOperationID           *string `json:"to_operation_id"`
	NewAssetID              *string `json:"new_asset_id"`
	InvestmentTransactionID *string `json:"investment_transaction_id"`
	InterestOperationID     *string `json:"interest_operation_id"`
}

// NewTransferResponse converts a transfer result
func NewTransferResponse(r *transfer.Result) TransferResponse {
	return TransferResponse{
		FromOperationID:         r.FromOperationID.String(),
		ToOperationID:           formatID(r.ToOperationID),
		NewAssetID:              formatID(r.NewAssetID),
		InvestmentTransactionID: formatID(r.InvestmentTransactionID),
		InterestOperationID:     formatID(r.InterestOperationID),
	}
}

// InvestmentTransactionResponse is the wire form of an investment transaction
type InvestmentTransactionResponse struct {
	ID              string    `json:"id"`
	AssetID         string    `json:"asset_id"`
	TransactionType string    `json:"transaction_type"`
	Quantity        string    `json:"quantity"`
	PricePerUnit    string    `json:"price_per_unit"`
	TotalValue      string    `json:"total_value"`
	TransactionDate string    `json:"transaction_date"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewInvestmentTransactionResponse converts an investment transaction
func NewInvestmentTransactionResponse(tx *domain.InvestmentTransaction) InvestmentTransactionResponse {
	return InvestmentTransactionResponse{
		ID:              tx.ID.String(),
		AssetID:         tx.AssetID.String(),
		TransactionType: string(tx.Type),
		Quantity:        tx.Quantity.String(),
		PricePerUnit:    tx.PricePerUnit.String(),
		TotalValue:      tx.TotalValue.String(),
		TransactionDate: formatDate(tx.Date),
		Notes:           tx.Notes,
		CreatedAt:       tx.CreatedAt,
	}
}

// NewInvestmentTransactionResponses converts a list of investment transactions
func NewInvestmentTransactionResponses(txs []*domain.InvestmentTransaction) []InvestmentTransactionResponse {
	out := make([]InvestmentTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewInvestmentTransactionResponse(tx))
	}
	return out
}

// UnrealizedGainResponse carries the unrealized gain of an investment
type UnrealizedGainResponse struct {
	AssetID        string `json:"asset_id"`
	UnrealizedGain string `json:"unrealized_gain"`
}

// ValuationResponse is the wire form of an asset valuation
type ValuationResponse struct {
	ID            string    `json:"id"`
	AssetID       string    `json:"asset_id"`
	ValuationDate string    `json:"valuation_date"`
	Value         string    `json:"value"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewValuationResponse converts a valuation
func NewValuationResponse(v *domain.AssetValuation) ValuationResponse {
	return ValuationResponse{
		ID:            v.ID.String(),
		AssetID:       v.AssetID.String(),
		ValuationDate: formatDate(v.Date),
		Value:         v.Value.String(),
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
	}
}

// NewValuationResponses converts a list of valuations
func NewValuationResponses(vs []*domain.AssetValuation) []ValuationResponse {
	out := make([]ValuationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, NewValuationResponse(v))
	}
	return out
}

// HashtagResponse is the wire form of a registry hashtag
type HashtagResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewHashtagResponses converts a list of hashtags
func NewHashtagResponses(hs []*domain.Hashtag) []HashtagResponse {
	out := make([]HashtagResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, NewHashtagResponse(h))
	}
	return out
}

// NewHashtagResponse converts a hashtag
func NewHashtagResponse(h *domain.Hashtag) HashtagResponse {
	return HashtagResponse{
		ID:         h.ID.String(),
		Name:       h.Name,
		UsageCount: h.UsageCount,
		CreatedAt:  h.CreatedAt,
	}
}

// NetWorthResponse is the dashboard summary
type NetWorthResponse struct {
	TotalNetWorth string `json:"total_net_worth"`
	Liquidity     string `json:"liquidity"`
	Investments   string `json:"investments"`
	Property      string `json:"property"`
	Liabilities   string `json:"liabilities"`
}

// NewNetWorthResponse converts a net worth result
func NewNetWorthResponse(r *dashboard.NetWorthResult) NetWorthResponse {
	return NetWorthResponse{
		TotalNetWorth: r.Total.String(),
		Liquidity:     r.Liquidity.String(),
		Investments:   r.Investments.String(),
		Property:      r.Property.String(),
		Liabilities:   r.Liabilities.String(),
	}
}

// ErrorBody is the error payload of both transports
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse converts a ledger error. Causes wrapped by store
// failures are not exposed.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Kind:    string(domain.KindOf(err)),
		Message: domain.MessageOf(err),
	}}
}
