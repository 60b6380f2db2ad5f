package grpc

import (
	"context"
	"encoding/json"
	"sort"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-ledger/internal/domain"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "wealthflow.ledger.v1.LedgerService"

// LedgerServiceServer is the handler type registered with grpc.Server.
// Every method takes and returns a google.protobuf.Struct.
type LedgerServiceServer interface {
	CreateOperation(context.Context, *structpb.Struct) (any, error)
	GetOperation(context.Context, *structpb.Struct) (any, error)
	UpdateOperation(context.Context, *structpb.Struct) (any, error)
	DeleteOperation(context.Context, *structpb.Struct) (any, error)
	ListOperations(context.Context, *structpb.Struct) (any, error)
	GetBalance(context.Context, *structpb.Struct) (any, error)
	SplitOperation(context.Context, *structpb.Struct) (any, error)
	UnsplitOperation(context.Context, *structpb.Struct) (any, error)
	GetOperationChildren(context.Context, *structpb.Struct) (any, error)
	Transfer(context.Context, *structpb.Struct) (any, error)
	CorrectBalance(context.Context, *structpb.Struct) (any, error)
	CreateAsset(context.Context, *structpb.Struct) (any, error)
	GetAsset(context.Context, *structpb.Struct) (any, error)
	ListAssets(context.Context, *structpb.Struct) (any, error)
	UpdateAsset(context.Context, *structpb.Struct) (any, error)
	DeleteAsset(context.Context, *structpb.Struct) (any, error)
	SetAssetActive(context.Context, *structpb.Struct) (any, error)
	ListAssetTypes(context.Context, *structpb.Struct) (any, error)
	RecordInvestmentTransaction(context.Context, *structpb.Struct) (any, error)
	ListInvestmentTransactions(context.Context, *structpb.Struct) (any, error)
	DeleteInvestmentTransaction(context.Context, *structpb.Struct) (any, error)
	GetUnrealizedGain(context.Context, *structpb.Struct) (any, error)
	RecordValuation(context.Context, *structpb.Struct) (any, error)
	ListValuations(context.Context, *structpb.Struct) (any, error)
	DeleteValuation(context.Context, *structpb.Struct) (any, error)
	ListHashtags(context.Context, *structpb.Struct) (any, error)
	CreateHashtag(context.Context, *structpb.Struct) (any, error)
	DeleteHashtag(context.Context, *structpb.Struct) (any, error)
	ExtractHashtags(context.Context, *structpb.Struct) (any, error)
	DeleteCategory(context.Context, *structpb.Struct) (any, error)
	GetNetWorth(context.Context, *structpb.Struct) (any, error)
}

var _ LedgerServiceServer = (*Server)(nil)

type unaryMethod func(s *Server, ctx context.Context, in *structpb.Struct) (any, error)

var methods = map[string]unaryMethod{
	"CreateOperation":             (*Server).CreateOperation,
	"GetOperation":                (*Server).GetOperation,
	"UpdateOperation":             (*Server).UpdateOperation,
	"DeleteOperation":             (*Server).DeleteOperation,
	"ListOperations":              (*Server).ListOperations,
	"GetBalance":                  (*Server).GetBalance,
	"SplitOperation":              (*Server).SplitOperation,
	"UnsplitOperation":            (*Server).UnsplitOperation,
	"GetOperationChildren":        (*Server).GetOperationChildren,
	"Transfer":                    (*Server).Transfer,
	"CorrectBalance":              (*Server).CorrectBalance,
	"CreateAsset":                 (*Server).CreateAsset,
	"GetAsset":                    (*Server).GetAsset,
	"ListAssets":                  (*Server).ListAssets,
	"UpdateAsset":                 (*Server).UpdateAsset,
	"DeleteAsset":                 (*Server).DeleteAsset,
	"SetAssetActive":              (*Server).SetAssetActive,
	"ListAssetTypes":              (*Server).ListAssetTypes,
	"RecordInvestmentTransaction": (*Server).RecordInvestmentTransaction,
	"ListInvestmentTransactions":  (*Server).ListInvestmentTransactions,
	"DeleteInvestmentTransaction": (*Server).DeleteInvestmentTransaction,
	"GetUnrealizedGain":           (*Server).GetUnrealizedGain,
	"RecordValuation":             (*Server).RecordValuation,
	"ListValuations":              (*Server).ListValuations,
	"DeleteValuation":             (*Server).DeleteValuation,
	"ListHashtags":                (*Server).ListHashtags,
	"CreateHashtag":               (*Server).CreateHashtag,
	"DeleteHashtag":               (*Server).DeleteHashtag,
	"ExtractHashtags":             (*Server).ExtractHashtags,
	"DeleteCategory":              (*Server).DeleteCategory,
	"GetNetWorth":                 (*Server).GetNetWorth,
}

// MethodNames returns the RPC names in sorted order
func MethodNames() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FullMethod returns the gRPC path of an RPC
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// ServiceDesc describes LedgerService for grpc.Server.RegisterService
func ServiceDesc() *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*LedgerServiceServer)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "wealthflow/ledger/v1/ledger.proto",
	}

	for _, name := range MethodNames() {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    handler(name, methods[name]),
		})
	}

	return desc
}

// Register registers srv on s
func Register(s *grpc.Server, srv *Server) {
	s.RegisterService(ServiceDesc(), srv)
}

func handler(name string, method unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		call := func(ctx context.Context, req any) (any, error) {
			out, err := method(srv.(*Server), ctx, req.(*structpb.Struct))
			if err != nil {
				return nil, mapError(ctx, err)
			}

			msg, err := encode(out)
			if err != nil {
				return nil, mapError(ctx, err)
			}
			return msg, nil
		}

		if interceptor == nil {
			return call(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(name),
		}
		return interceptor(ctx, in, info, call)
	}
}

// decode copies a Struct message into a JSON-tagged request
func decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}

	data, err := protojson.Marshal(in)
	if err != nil {
		return domain.NewInvalidArgument("invalid request: %v", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return domain.NewInvalidArgument("invalid request: %v", err)
	}

	return nil
}

// encode converts a JSON-tagged response into a Struct message
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, domain.NewStoreFailure(err, "failed to encode response")
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, domain.NewStoreFailure(err, "failed to encode response")
	}

	return out, nil
}
