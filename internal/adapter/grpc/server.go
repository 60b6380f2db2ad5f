package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-ledger/internal/adapter/dto"
	"github.com/simaogato/wealthflow-ledger/internal/app"
	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// Server implements the LedgerService gRPC service
type Server struct {
	Services *app.Services
}

// NewServer creates a new gRPC server instance
func NewServer(services *app.Services) *Server {
	return &Server{Services: services}
}

type idRequest struct {
	ID string `json:"id"`
}

type assetIDRequest struct {
	AssetID string `json:"asset_id"`
}

type updateOperationRequest struct {
	ID string `json:"id"`
	dto.OperationRequest
}

type splitOperationRequest struct {
	ID string `json:"id"`
	dto.SplitRequest
}

type correctBalanceRequest struct {
	AssetID string `json:"asset_id"`
	dto.CorrectBalanceRequest
}

type listAssetsRequest struct {
	Category string `json:"category"`
}

type updateAssetRequest struct {
	ID string `json:"id"`
	dto.UpdateAssetRequest
}

type setActiveRequest struct {
	ID string `json:"id"`
	dto.SetActiveRequest
}

type extractHashtagsRequest struct {
	Text string `json:"text"`
}

type deleted struct {
	Deleted bool `json:"deleted"`
}

func parseID(in *structpb.Struct) (idRequest, error) {
	var req idRequest
	err := decode(in, &req)
	return req, err
}

// CreateOperation handles the CreateOperation RPC
func (s *Server) CreateOperation(ctx context.Context, in *structpb.Struct) (any, error) {
	var req dto.OperationRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	input, err := req.ToInput()
	if err != nil {
		return nil, err
	}

	op, err := s.Services.Ledger.CreateOperation(ctx, input)
	if err != nil {
		return nil, err
	}
	return dto.NewOperationResponse(op), nil
}

// GetOperation handles the GetOperation RPC
func (s *Server) GetOperation(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	op, err := s.Services.Ledger.GetOperation(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOperationResponse(op), nil
}

// UpdateOperation handles the UpdateOperation RPC
func (s *Server) UpdateOperation(ctx context.Context, in *structpb.Struct) (any, error) {
	var req updateOperationRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	input, err := req.ToInput()
	if err != nil {
		return nil, err
	}

	op, err := s.Services.Ledger.UpdateOperation(ctx, id, input)
	if err != nil {
		return nil, err
	}
	return dto.NewOperationResponse(op), nil
}

// DeleteOperation handles the DeleteOperation RPC
func (s *Server) DeleteOperation(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Services.Ledger.DeleteOperation(ctx, id); err != nil {
		return nil, err
	}
	return deleted{Deleted: true}, nil
}

// ListOperations handles the ListOperations RPC
func (s *Server) ListOperations(ctx context.Context, in *structpb.Struct) (any, error) {
	var req dto.ListOperationsRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	filter, err := req.ToFilter()
	if err != nil {
		return nil, err
	}

	ops, total, err := s.Services.Ledger.ListOperations(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.OperationListResponse{
		Operations: dto.NewOperationResponses(ops),
		TotalCount: total,
	}, nil
}

// GetBalance handles the GetBalance RPC
func (s *Server) GetBalance(ctx context.Context, in *structpb.Struct) (any, error) {
	var req assetIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	assetID, err := dto.ParseID("asset_id", req.AssetID)
	if err != nil {
		return nil, err
	}

	balance, err := s.Services.Ledger.GetBalance(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return dto.NewBalanceResponse(assetID, balance), nil
}

// SplitOperation handles the SplitOperation RPC
func (s *Server) SplitOperation(ctx context.Context, in *structpb.Struct) (any, error) {
	var req splitOperationRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	items, err := req.ToItems()
	if err != nil {
		return nil, err
	}

	children, err := s.Services.Split.SplitOperation(ctx, id, items)
	if err != nil {
		return nil, err
	}
	return map[string]any{"children": dto.NewOperationResponses(children)}, nil
}

// UnsplitOperation handles the UnsplitOperation RPC
func (s *Server) UnsplitOperation(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	op, err := s.Services.Split.UnsplitOperation(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewOperationResponse(op), nil
}

// GetOperationChildren handles the GetOperationChildren RPC
func (s *Server) GetOperationChildren(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	children, err := s.Services.Split.GetOperationChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"children": dto.NewOperationResponses(children)}, nil
}

// Transfer handles the Transfer RPC
func (s *Server) Transfer(ctx context.Context, in *structpb.Struct) (any, error) {
	var req dto.TransferRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	transferReq, err := req.ToRequest()
	if err != nil {
		return nil, err
	}

	result, err := s.Services.Transfer.Transfer(ctx, transferReq)
	if err != nil {
		return nil, err
	}
	return dto.NewTransferResponse(result), nil
}

// CorrectBalance handles the CorrectBalance RPC
func (s *Server) CorrectBalance(ctx context.Context, in *structpb.Struct) (any, error) {
	var req correctBalanceRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	assetID, err := dto.ParseID("asset_id", req.AssetID)
	if err != nil {
		return nil, err
	}

	target, err := req.Target()
	if err != nil {
		return nil, err
	}

	asset, err := s.Services.Correction.CorrectBalance(ctx, assetID, target)
	if err != nil {
		return nil, err
	}
	return dto.NewAssetResponse(asset), nil
}

// CreateAsset handles the CreateAsset RPC
func (s *Server) CreateAsset(ctx context.Context, in *structpb.Struct) (any, error) {
	var req dto.CreateAssetRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	input, err := req.ToInput()
	if err != nil {
		return nil, err
	}

	asset, err := s.Services.Assets.CreateAsset(ctx, input)
	if err != nil {
		return nil, err
	}
	return dto.NewAssetResponse(asset), nil
}

// GetAsset handles the GetAsset RPC
func (s *Server) GetAsset(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	asset, err := s.Services.Assets.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewAssetResponse(asset), nil
}

// ListAssets handles the ListAssets RPC
func (s *Server) ListAssets(ctx context.Context, in *structpb.Struct) (any, error) {
	var req listAssetsRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	assets, err := s.Services.Assets.ListAssets(ctx, domain.AssetCategory(req.Category))
	if err != nil {
		return nil, err
	}
	return map[string]any{"assets": dto.NewAssetResponses(assets)}, nil
}

// DeleteAsset handles the DeleteAsset RPC
func (s *Server) DeleteAsset(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Services.Assets.DeleteAsset(ctx, id); err != nil {
		return nil, err
	}
	return deleted{Deleted: true}, nil
}

// UpdateAsset handles the UpdateAsset RPC
func (s *Server) UpdateAsset(ctx context.Context, in *structpb.Struct) (any, error) {
	var req updateAssetRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	input, err := req.ToInput()
	if err != nil {
		return nil, err
	}

	asset, err := s.Services.Assets.UpdateAsset(ctx, id, input)
	if err != nil {
		return nil, err
	}
	return dto.NewAssetResponse(asset), nil
}

// SetAssetActive handles the SetAssetActive RPC
func (s *Server) SetAssetActive(ctx context.Context, in *structpb.Struct) (any, error) {
	var req setActiveRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	if err := dto.Validate(&req.SetActiveRequest); err != nil {
		return nil, err
	}

	asset, err := s.Services.Assets.SetActive(ctx, id, *req.IsActive)
	if err != nil {
		return nil, err
	}
	return dto.NewAssetResponse(asset), nil
}

// ListAssetTypes handles the ListAssetTypes RPC
func (s *Server) ListAssetTypes(ctx context.Context, _ *structpb.Struct) (any, error) {
	types, err := s.Services.Assets.ListAssetTypes(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"asset_types": dto.NewAssetTypeResponses(types)}, nil
}

// RecordInvestmentTransaction handles the RecordInvestmentTransaction RPC
func (s *Server) RecordInvestmentTransaction(ctx context.Context, in *structpb.Struct) (any, error) {
	var req dto.TradeRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	input, err := req.ToInput()
	if err != nil {
		return nil, err
	}

	record := s.Services.Investment.RecordBuy
	if req.Type() == domain.InvestmentSell {
		record = s.Services.Investment.RecordSell
	}

	tx, err := record(ctx, req.Asset(), input)
	if err != nil {
		return nil, err
	}
	return dto.NewInvestmentTransactionResponse(tx), nil
}

// ListInvestmentTransactions handles the ListInvestmentTransactions RPC
func (s *Server) ListInvestmentTransactions(ctx context.Context, in *structpb.Struct) (any, error) {
	var req assetIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	assetID, err := dto.ParseID("asset_id", req.AssetID)
	if err != nil {
		return nil, err
	}

	txs, err := s.Services.Investment.ListTransactions(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"transactions": dto.NewInvestmentTransactionResponses(txs)}, nil
}

// DeleteInvestmentTransaction handles the DeleteInvestmentTransaction RPC
func (s *Server) DeleteInvestmentTransaction(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Services.Investment.DeleteTransaction(ctx, id); err != nil {
		return nil, err
	}
	return deleted{Deleted: true}, nil
}

// GetUnrealizedGain handles the GetUnrealizedGain RPC
func (s *Server) GetUnrealizedGain(ctx context.Context, in *structpb.Struct) (any, error) {
	var req assetIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	assetID, err := dto.ParseID("asset_id", req.AssetID)
	if err != nil {
		return nil, err
	}

	gain, err := s.Services.Investment.UnrealizedGain(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return dto.UnrealizedGainResponse{AssetID: assetID.String(), UnrealizedGain: gain.String()}, nil
}

// RecordValuation handles the RecordValuation RPC
func (s *Server) RecordValuation(ctx context.Context, in *structpb.Struct) (any, error) {
	var req dto.ValuationRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	v, err := req.Valuation()
	if err != nil {
		return nil, err
	}

	valuation, err := s.Services.Assets.RecordValuation(ctx, v.AssetID, v.Value, v.Date, v.Notes)
	if err != nil {
		return nil, err
	}
	return dto.NewValuationResponse(valuation), nil
}

// ListValuations handles the ListValuations RPC
func (s *Server) ListValuations(ctx context.Context, in *structpb.Struct) (any, error) {
	var req assetIDRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	assetID, err := dto.ParseID("asset_id", req.AssetID)
	if err != nil {
		return nil, err
	}

	valuations, err := s.Services.Assets.ListValuations(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"valuations": dto.NewValuationResponses(valuations)}, nil
}

// DeleteValuation handles the DeleteValuation RPC
func (s *Server) DeleteValuation(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Services.Assets.DeleteValuation(ctx, id); err != nil {
		return nil, err
	}
	return deleted{Deleted: true}, nil
}

// ListHashtags handles the ListHashtags RPC
func (s *Server) ListHashtags(ctx context.Context, _ *structpb.Struct) (any, error) {
	hashtags, err := s.Services.Hashtags.ListHashtags(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"hashtags": dto.NewHashtagResponses(hashtags)}, nil
}

// CreateHashtag handles the CreateHashtag RPC
func (s *Server) CreateHashtag(ctx context.Context, in *structpb.Struct) (any, error) {
	var req dto.HashtagRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	if err := dto.Validate(&req); err != nil {
		return nil, err
	}

	hashtag, err := s.Services.Hashtags.CreateHashtag(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return dto.NewHashtagResponse(hashtag), nil
}

// DeleteHashtag handles the DeleteHashtag RPC
func (s *Server) DeleteHashtag(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Services.Hashtags.DeleteHashtag(ctx, id); err != nil {
		return nil, err
	}
	return deleted{Deleted: true}, nil
}

// ExtractHashtags handles the ExtractHashtags RPC
func (s *Server) ExtractHashtags(_ context.Context, in *structpb.Struct) (any, error) {
	var req extractHashtagsRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	hashtags := s.Services.Hashtags.ExtractHashtags(req.Text)
	if hashtags == nil {
		hashtags = []string{}
	}
	return map[string]any{"hashtags": hashtags}, nil
}

// DeleteCategory handles the DeleteCategory RPC
func (s *Server) DeleteCategory(ctx context.Context, in *structpb.Struct) (any, error) {
	req, err := parseID(in)
	if err != nil {
		return nil, err
	}

	id, err := dto.ParseID("id", req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Services.Categories.DeleteCategory(ctx, id); err != nil {
		return nil, err
	}
	return deleted{Deleted: true}, nil
}

// GetNetWorth handles the GetNetWorth RPC
func (s *Server) GetNetWorth(ctx context.Context, _ *structpb.Struct) (any, error) {
	result, err := s.Services.Dashboard.GetNetWorth(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewNetWorthResponse(result), nil
}
