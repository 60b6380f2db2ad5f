package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-ledger/internal/adapter/dto"
	"github.com/simaogato/wealthflow-ledger/internal/app"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

const defaultPageSize = 100

// Handler serves the ledger over HTTP+JSON
type Handler struct {
	Services *app.Services
}

// NewHandler creates a new Handler instance
func NewHandler(services *app.Services) *Handler {
	return &Handler{Services: services}
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, domain.NewInvalidArgument("invalid request: malformed JSON body"))
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := dto.ParseID("id", c.Param("id"))
	if err != nil {
		fail(c, err)
		return uuid.Nil, false
	}
	return id, true
}

// CreateOperation handles POST /operations
func (h *Handler) CreateOperation(c *gin.Context) {
	var req dto.OperationRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		fail(c, err)
		return
	}

	op, err := h.Services.Ledger.CreateOperation(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusCreated, dto.NewOperationResponse(op))
}

// ListOperations handles GET /operations
func (h *Handler) ListOperations(c *gin.Context) {
	req := dto.ListOperationsRequest{Limit: defaultPageSize}
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, domain.NewInvalidArgument("invalid request: %v", err))
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	ops, total, err := h.Services.Ledger.ListOperations(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(stdhttp.StatusOK, dto.OperationListResponse{
		Operations: dto.NewOperationResponses(ops),
		TotalCount: total,
	})
}

// GetOperation handles GET /operations/:id
func (h *Handler) GetOperation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	op, err := h.Services.Ledger.GetOperation(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewOperationResponse(op))
}

// UpdateOperation handles PUT /operations/:id
func (h *Handler) UpdateOperation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.OperationRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		fail(c, err)
		return
	}

	op, err := h.Services.Ledger.UpdateOperation(c.Request.Context(), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewOperationResponse(op))
}

// DeleteOperation handles DELETE /operations/:id
func (h *Handler) DeleteOperation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Services.Ledger.DeleteOperation(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(stdhttp.StatusNoContent)
}

// SplitOperation handles POST /operations/:id/split
func (h *Handler) SplitOperation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SplitRequest
	if !bindJSON(c, &req) {
		return
	}

	items, err := req.ToItems()
	if err != nil {
		fail(c, err)
		return
	}

	children, err := h.Services.Split.SplitOperation(c.Request.Context(), id, items)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusCreated, gin.H{"children": dto.NewOperationResponses(children)})
}

// UnsplitOperation handles POST /operations/:id/unsplit
func (h *Handler) UnsplitOperation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	op, err := h.Services.Split.UnsplitOperation(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewOperationResponse(op))
}

// GetOperationChildren handles GET /operations/:id/children
func (h *Handler) GetOperationChildren(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	children, err := h.Services.Split.GetOperationChildren(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, gin.H{"children": dto.NewOperationResponses(children)})
}

// Transfer handles POST /operations/transfer
func (h *Handler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}

	transferReq, err := req.ToRequest()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.Services.Transfer.Transfer(c.Request.Context(), transferReq)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusCreated, dto.NewTransferResponse(result))
}

// GetBalance handles GET /assets/:id/balance
func (h *Handler) GetBalance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	balance, err := h.Services.Ledger.GetBalance(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewBalanceResponse(id, balance))
}

// CorrectBalance handles POST /assets/:id/correct-balance
func (h *Handler) CorrectBalance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.CorrectBalanceRequest
	if !bindJSON(c, &req) {
		return
	}

	target, err := req.Target()
	if err != nil {
		fail(c, err)
		return
	}

	asset, err := h.Services.Correction.CorrectBalance(c.Request.Context(), id, target)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(stdhttp.StatusOK, dto.NewAssetResponse(asset))
}
