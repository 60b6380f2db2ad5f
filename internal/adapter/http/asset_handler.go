package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/simaogato/wealthflow-ledger/internal/adapter/dto"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// CreateAsset handles POST /assets
func (h *Handler) CreateAsset(c *gin.Context) {
	var req dto.CreateAssetRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		fail(c, err)
		return
	}

	asset, err := h.Services.Assets.CreateAsset(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusCreated, dto.NewAssetResponse(asset))
}

// ListAssets handles GET /assets?category=
func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.Services.Assets.ListAssets(c.Request.Context(), domain.AssetCategory(c.Query("category")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"assets": dto.NewAssetResponses(assets)})
}

// GetAsset handles GET /assets/:id
func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	asset, err := h.Services.Assets.GetAsset(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewAssetResponse(asset))
}

// DeleteAsset handles DELETE /assets/:id
func (h *Handler) DeleteAsset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Services.Assets.DeleteAsset(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(stdhttp.StatusNoContent)
}

// UpdateAsset handles PUT /assets/:id
func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateAssetRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		fail(c, err)
		return
	}

	asset, err := h.Services.Assets.UpdateAsset(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewAssetResponse(asset))
}

// SetAssetActive handles PATCH /assets/:id/active
func (h *Handler) SetAssetActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := dto.Validate(&req); err != nil {
		fail(c, err)
		return
	}

	asset, err := h.Services.Assets.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewAssetResponse(asset))
}

// ListAssetTypes handles GET /asset-types
func (h *Handler) ListAssetTypes(c *gin.Context) {
	types, err := h.Services.Assets.ListAssetTypes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"asset_types": dto.NewAssetTypeResponses(types)})
}

// RecordInvestmentTransaction handles POST /investment-transactions
func (h *Handler) RecordInvestmentTransaction(c *gin.Context) {
	var req dto.TradeRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		fail(c, err)
		return
	}

	record := h.Services.Investment.RecordBuy
	if req.Type() == domain.InvestmentSell {
		record = h.Services.Investment.RecordSell
	}

	tx, err := record(c.Request.Context(), req.Asset(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusCreated, dto.NewInvestmentTransactionResponse(tx))
}

// ListInvestmentTransactions handles GET /assets/:id/investment-transactions
func (h *Handler) ListInvestmentTransactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	txs, err := h.Services.Investment.ListTransactions(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"transactions": dto.NewInvestmentTransactionResponses(txs)})
}

// DeleteInvestmentTransaction handles DELETE /investment-transactions/:id
func (h *Handler) DeleteInvestmentTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Services.Investment.DeleteTransaction(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(stdhttp.StatusNoContent)
}

// GetUnrealizedGain handles GET /assets/:id/unrealized-gain
func (h *Handler) GetUnrealizedGain(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	gain, err := h.Services.Investment.UnrealizedGain(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.UnrealizedGainResponse{AssetID: id.String(), UnrealizedGain: gain.String()})
}

// RecordValuation handles POST /asset-valuations
func (h *Handler) RecordValuation(c *gin.Context) {
	var req dto.ValuationRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := req.Valuation()
	if err != nil {
		fail(c, err)
		return
	}

	valuation, err := h.Services.Assets.RecordValuation(c.Request.Context(), v.AssetID, v.Value, v.Date, v.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusCreated, dto.NewValuationResponse(valuation))
}

// ListValuations handles GET /assets/:id/valuations
func (h *Handler) ListValuations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	valuations, err := h.Services.Assets.ListValuations(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"valuations": dto.NewValuationResponses(valuations)})
}

// DeleteValuation handles DELETE /asset-valuations/:id
func (h *Handler) DeleteValuation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Services.Assets.DeleteValuation(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(stdhttp.StatusNoContent)
}

// GetNetWorth handles GET /net-worth
func (h *Handler) GetNetWorth(c *gin.Context) {
	result, err := h.Services.Dashboard.GetNetWorth(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewNetWorthResponse(result))
}
