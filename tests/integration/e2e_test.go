//go:build integration

package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/wealthflow-ledger/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-ledger/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-ledger/internal/app"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/seeder"
)

const (
	bankAccountType = "00000000-0000-0000-0000-000000000101"
	stocksType      = "00000000-0000-0000-0000-000000000201"
	vehicleType     = "00000000-0000-0000-0000-000000000401"
	loanType        = "00000000-0000-0000-0000-000000000601"
)

var (
	db       *postgres.DB
	grpcConn *grpc.ClientConn
)

// TestMain starts PostgreSQL in a container and serves the ledger over a
// loopback gRPC listener
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	// 1. Start Database
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "wealthflow",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		return 1
	}
	defer container.Terminate(ctx)

	host, err := container.Host(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get postgres host: %v\n", err)
		return 1
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get postgres port: %v\n", err)
		return 1
	}

	connStr := fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=wealthflow sslmode=disable", host, port.Port())
	db, err = postgres.NewDB(connStr, postgres.PoolOptions{MaxOpenConns: 20})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		return 1
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		return 1
	}

	// 2. Wire the ledger
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	assetTypes := postgres.NewAssetTypeRegistry(db, time.Minute)
	repos := postgres.NewRepositories(db, assetTypes)
	uow := postgres.NewUnitOfWork(db, assetTypes)

	if _, err := seeder.NewSystemSeeder(repos.Categories).Seed(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed categories: %v\n", err)
		return 1
	}

	// 3. Start gRPC Server
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcadapter.LoggingInterceptor(logger),
		grpcadapter.RecoveryInterceptor(logger),
	))
	grpcadapter.Register(server, grpcadapter.NewServer(app.NewServices(repos, uow, logger)))

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		return 1
	}
	go func() { _ = server.Serve(lis) }()
	defer server.Stop()

	grpcConn, err = grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to gRPC server: %v\n", err)
		return 1
	}
	defer grpcConn.Close()

	return m.Run()
}

// call invokes an RPC and returns the response as a map
func call(t *testing.T, method string, in map[string]any) (map[string]any, error) {
	t.Helper()

	req, err := structpb.NewStruct(in)
	require.NoError(t, err)

	out := new(structpb.Struct)
	var trailer metadata.MD
	if err := grpcConn.Invoke(context.Background(), grpcadapter.FullMethod(method), req, out, grpc.Trailer(&trailer)); err != nil {
		if kinds := trailer.Get(grpcadapter.ErrorKindTrailer); len(kinds) > 0 {
			return map[string]any{"kind": kinds[0]}, err
		}
		return nil, err
	}
	return out.AsMap(), nil
}

func mustCall(t *testing.T, method string, in map[string]any) map[string]any {
	t.Helper()

	out, err := call(t, method, in)
	require.NoError(t, err, "%s should succeed", method)
	return out
}

func dec(t *testing.T, v any) decimal.Decimal {
	t.Helper()

	s, ok := v.(string)
	require.True(t, ok, "expected a decimal string, got %v", v)
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func createAsset(t *testing.T, typeID, name string, extra map[string]any) string {
	t.Helper()

	in := map[string]any{"asset_type_id": typeID, "name": name}
	for k, v := range extra {
		in[k] = v
	}
	return mustCall(t, "CreateAsset", in)["id"].(string)
}

func balance(t *testing.T, assetID string) decimal.Decimal {
	t.Helper()
	return dec(t, mustCall(t, "GetBalance", map[string]any{"asset_id": assetID})["balance"])
}

// storedBalance reads the materialized balance straight from the table
func storedBalance(t *testing.T, assetID string) decimal.Decimal {
	t.Helper()

	var raw string
	err := db.QueryRowContext(context.Background(), `SELECT current_valuation FROM assets WHERE id = $1`, assetID).Scan(&raw)
	require.NoError(t, err)
	d, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return d
}

// count runs a COUNT(*) query
func count(t *testing.T, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func assertBalance(t *testing.T, assetID string, expected string) {
	t.Helper()

	want := decimal.RequireFromString(expected)
	got := balance(t, assetID)
	assert.True(t, got.Equal(want), "balance should be %s, got %s", want, got)
	stored := storedBalance(t, assetID)
	assert.True(t, stored.Equal(got), "stored balance %s should match computed %s", stored, got)
}

func TestSplitAndUnsplit(t *testing.T) {
	checking := createAsset(t, bankAccountType, "Checking "+uuid.NewString()[:8], nil)

	op := mustCall(t, "CreateOperation", map[string]any{
		"asset_id":       checking,
		"amount":         "200",
		"operation_type": "expense",
		"operation_date": "2024-03-02",
		"description":    "Weekly shop #groceries",
	})
	assertBalance(t, checking, "-200")

	children := mustCall(t, "SplitOperation", map[string]any{
		"id": op["id"],
		"items": []any{
			map[string]any{"amount": "120", "description": "Food #groceries"},
			map[string]any{"amount": "80", "description": "Cleaning #home"},
		},
	})["children"].([]any)
	require.Len(t, children, 2)

	for _, c := range children {
		child := c.(map[string]any)
		assert.Equal(t, op["id"], child["parent_operation_id"])
		assert.True(t, dec(t, child["amount"]).IsNegative(), "children inherit the expense sign")
	}

	// Children never count toward the balance
	assertBalance(t, checking, "-200")

	parent := mustCall(t, "GetOperation", map[string]any{"id": op["id"]})
	assert.Equal(t, true, parent["is_split"])

	// Splitting twice is rejected
	_, err := call(t, "SplitOperation", map[string]any{
		"id":    op["id"],
		"items": []any{map[string]any{"amount": "100"}, map[string]any{"amount": "100"}},
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	mustCall(t, "UnsplitOperation", map[string]any{"id": op["id"]})
	remaining := mustCall(t, "GetOperationChildren", map[string]any{"id": op["id"]})["children"].([]any)
	assert.Empty(t, remaining)
	assertBalance(t, checking, "-200")
}

func TestSplit_AmountMismatchLeavesParentUntouched(t *testing.T) {
	checking := createAsset(t, bankAccountType, "Checking "+uuid.NewString()[:8], nil)
	op := mustCall(t, "CreateOperation", map[string]any{
		"asset_id":       checking,
		"amount":         "200",
		"operation_type": "expense",
	})

	out, err := call(t, "SplitOperation", map[string]any{
		"id":    op["id"],
		"items": []any{map[string]any{"amount": "120"}, map[string]any{"amount": "70"}},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "AMOUNT_MISMATCH", out["kind"])

	parent := mustCall(t, "GetOperation", map[string]any{"id": op["id"]})
	assert.Equal(t, false, parent["is_split"])
}

func TestTransfer_LiquidToLiquid(t *testing.T) {
	a := createAsset(t, bankAccountType, "Source "+uuid.NewString()[:8], map[string]any{"initial_value": "1000"})
	b := createAsset(t, bankAccountType, "Target "+uuid.NewString()[:8], nil)

	result := mustCall(t, "Transfer", map[string]any{
		"transfer_type": "liquid_to_liquid",
		"from_asset_id": a,
		"to_asset_id":   b,
		"amount":        "500",
	})

	assertBalance(t, a, "500")
	assertBalance(t, b, "500")

	from := mustCall(t, "GetOperation", map[string]any{"id": result["from_operation_id"]})
	to := mustCall(t, "GetOperation", map[string]any{"id": result["to_operation_id"]})
	assert.Equal(t, result["to_operation_id"], from["linked_operation_id"])
	assert.Equal(t, result["from_operation_id"], to["linked_operation_id"])

	// Deleting one leg unlinks the other
	mustCall(t, "DeleteOperation", map[string]any{"id": result["from_operation_id"]})
	to = mustCall(t, "GetOperation", map[string]any{"id": result["to_operation_id"]})
	assert.Nil(t, to["linked_operation_id"])
	assertBalance(t, a, "1000")
	assertBalance(t, b, "500")
}

func TestTransfer_MissingDestinationRollsBack(t *testing.T) {
	a := createAsset(t, bankAccountType, "Source "+uuid.NewString()[:8], map[string]any{"initial_value": "300"})

	var before int
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM operations WHERE asset_id = $1`, a).Scan(&before))

	out, err := call(t, "Transfer", map[string]any{
		"transfer_type": "liquid_to_liquid",
		"from_asset_id": a,
		"to_asset_id":   uuid.NewString(),
		"amount":        "100",
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "NOT_FOUND", out["kind"])

	var after int
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM operations WHERE asset_id = $1`, a).Scan(&after))
	assert.Equal(t, before, after, "no operation should survive a failed transfer")
	assertBalance(t, a, "300")
}

func TestTransfer_MissingInvestmentDestinationRollsBack(t *testing.T) {
	cash := createAsset(t, bankAccountType, "Broker cash "+uuid.NewString()[:8], map[string]any{"initial_value": "1000"})
	assetsBefore := count(t, `SELECT COUNT(*) FROM assets`)
	tradesBefore := count(t, `SELECT COUNT(*) FROM investment_transactions`)

	out, err := call(t, "Transfer", map[string]any{
		"transfer_type":       "liquid_to_investment",
		"from_asset_id":       cash,
		"to_asset_id":         uuid.NewString(),
		"amount":              "400",
		"investment_quantity": "4",
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "NOT_FOUND", out["kind"])

	assert.Equal(t, assetsBefore, count(t, `SELECT COUNT(*) FROM assets`))
	assert.Equal(t, tradesBefore, count(t, `SELECT COUNT(*) FROM investment_transactions`))
	assertBalance(t, cash, "1000")
}

func TestTransfer_FailureAfterWritesRollsBack(t *testing.T) {
	cash := createAsset(t, bankAccountType, "Broker cash "+uuid.NewString()[:8], map[string]any{"initial_value": "1000"})
	name := "ACME " + uuid.NewString()[:8]
	tradesBefore := count(t, `SELECT COUNT(*) FROM investment_transactions`)
	opsBefore := count(t, `SELECT COUNT(*) FROM operations WHERE asset_id = $1`, cash)

	// The new asset and its buy are written before the source leg fails on
	// the unknown category
	out, err := call(t, "Transfer", map[string]any{
		"transfer_type":       "liquid_to_investment",
		"from_asset_id":       cash,
		"amount":              "400",
		"investment_quantity": "4",
		"category_id":         uuid.NewString(),
		"new_asset":           map[string]any{"asset_type_id": stocksType, "name": name},
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "NOT_FOUND", out["kind"])

	assert.Zero(t, count(t, `SELECT COUNT(*) FROM assets WHERE name = $1`, name), "provisioned asset must be rolled back")
	assert.Equal(t, tradesBefore, count(t, `SELECT COUNT(*) FROM investment_transactions`))
	assert.Equal(t, opsBefore, count(t, `SELECT COUNT(*) FROM operations WHERE asset_id = $1`, cash))
	assertBalance(t, cash, "1000")
}

func TestTransfer_NewAssetOfWrongTypeRollsBack(t *testing.T) {
	cash := createAsset(t, bankAccountType, "Checking "+uuid.NewString()[:8], map[string]any{"initial_value": "1000"})
	name := "Watch " + uuid.NewString()[:8]

	// The asset row is inserted before its type is found to be a vehicle
	out, err := call(t, "Transfer", map[string]any{
		"transfer_type": "liquid_to_valuable",
		"from_asset_id": cash,
		"amount":        "250",
		"new_asset":     map[string]any{"asset_type_id": vehicleType, "name": name},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "INVALID_ARGUMENT", out["kind"])

	assert.Zero(t, count(t, `SELECT COUNT(*) FROM assets WHERE name = $1`, name), "provisioned asset must be rolled back")
	assertBalance(t, cash, "1000")
}

func TestTransfer_LiquidToLiabilityRepaysDebt(t *testing.T) {
	a := createAsset(t, bankAccountType, "Source "+uuid.NewString()[:8], map[string]any{"initial_value": "1000"})
	loan := createAsset(t, loanType, "Loan "+uuid.NewString()[:8], map[string]any{"initial_value": "-5000"})

	result := mustCall(t, "Transfer", map[string]any{
		"transfer_type":   "liquid_to_liability",
		"from_asset_id":   a,
		"to_asset_id":     loan,
		"amount":          "600",
		"interest_amount": "100",
	})

	assert.NotNil(t, result["interest_operation_id"])
	// Interest is an extra expense on the paying account
	assertBalance(t, a, "300")
	assertBalance(t, loan, "-4400")
}

func TestInvestment_WeightedAverage(t *testing.T) {
	cash := createAsset(t, bankAccountType, "Broker cash "+uuid.NewString()[:8], map[string]any{"initial_value": "5000"})

	result := mustCall(t, "Transfer", map[string]any{
		"transfer_type":       "liquid_to_investment",
		"from_asset_id":       cash,
		"amount":              "1000",
		"investment_quantity": "10",
		"new_asset": map[string]any{
			"asset_type_id": stocksType,
			"name":          "ACME " + uuid.NewString()[:8],
		},
	})
	stock := result["new_asset_id"].(string)
	assertBalance(t, cash, "4000")

	mustCall(t, "RecordInvestmentTransaction", map[string]any{
		"asset_id":         stock,
		"transaction_type": "buy",
		"quantity":         "10",
		"price_per_unit":   "120",
	})

	asset := mustCall(t, "GetAsset", map[string]any{"id": stock})
	assert.True(t, dec(t, asset["quantity"]).Equal(decimal.NewFromInt(20)))
	assert.True(t, dec(t, asset["average_purchase_price"]).Equal(decimal.NewFromInt(110)))

	// Selling leaves the average price unchanged
	sell := mustCall(t, "RecordInvestmentTransaction", map[string]any{
		"asset_id":         stock,
		"transaction_type": "sell",
		"quantity":         "5",
		"total_value":      "750",
	})
	asset = mustCall(t, "GetAsset", map[string]any{"id": stock})
	assert.True(t, dec(t, asset["quantity"]).Equal(decimal.NewFromInt(15)))
	assert.True(t, dec(t, asset["average_purchase_price"]).Equal(decimal.NewFromInt(110)))

	// Overselling is rejected
	_, err := call(t, "RecordInvestmentTransaction", map[string]any{
		"asset_id":         stock,
		"transaction_type": "sell",
		"quantity":         "100",
		"price_per_unit":   "150",
	})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	// Deleting the sell recomputes holdings from history
	mustCall(t, "DeleteInvestmentTransaction", map[string]any{"id": sell["id"]})
	asset = mustCall(t, "GetAsset", map[string]any{"id": stock})
	assert.True(t, dec(t, asset["quantity"]).Equal(decimal.NewFromInt(20)))

	mustCall(t, "RecordValuation", map[string]any{"asset_id": stock, "value": "2500"})
	gain := mustCall(t, "GetUnrealizedGain", map[string]any{"asset_id": stock})
	assert.True(t, dec(t, gain["unrealized_gain"]).Equal(decimal.NewFromInt(300)))
}

func TestCorrectBalance(t *testing.T) {
	checking := createAsset(t, bankAccountType, "Checking "+uuid.NewString()[:8], map[string]any{"initial_value": "800"})

	asset := mustCall(t, "CorrectBalance", map[string]any{"asset_id": checking, "target_balance": "750.50"})
	assert.True(t, dec(t, asset["current_valuation"]).Equal(decimal.RequireFromString("750.50")))
	assertBalance(t, checking, "750.50")

	// Correcting to the current balance records nothing
	var before int
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM operations WHERE asset_id = $1`, checking).Scan(&before))

	mustCall(t, "CorrectBalance", map[string]any{"asset_id": checking, "target_balance": "750.5"})

	var after int
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM operations WHERE asset_id = $1`, checking).Scan(&after))
	assert.Equal(t, before, after)

	// The correction is filed under the system category
	var categorySystem bool
	require.NoError(t, db.QueryRowContext(context.Background(), `
		SELECT c.is_system FROM operations o JOIN categories c ON c.id = o.category_id
		WHERE o.asset_id = $1 AND o.description <> 'Opening balance'`, checking).Scan(&categorySystem))
	assert.True(t, categorySystem)
}

func TestConcurrentTransfers_ConserveValue(t *testing.T) {
	a := createAsset(t, bankAccountType, "A "+uuid.NewString()[:8], map[string]any{"initial_value": "1000"})
	b := createAsset(t, bankAccountType, "B "+uuid.NewString()[:8], map[string]any{"initial_value": "1000"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		from, to := a, b
		if i%2 == 1 {
			from, to = b, a
		}
		go func(from, to string) {
			defer wg.Done()
			_, err := call(t, "Transfer", map[string]any{
				"transfer_type": "liquid_to_liquid",
				"from_asset_id": from,
				"to_asset_id":   to,
				"amount":        "10",
			})
			assert.NoError(t, err)
		}(from, to)
	}
	wg.Wait()

	total := balance(t, a).Add(balance(t, b))
	assert.True(t, total.Equal(decimal.NewFromInt(2000)), "transfers must conserve value, got %s", total)
	assertBalance(t, a, "1000")
	assertBalance(t, b, "1000")
}

func TestNetWorth(t *testing.T) {
	out := mustCall(t, "GetNetWorth", map[string]any{})

	total := dec(t, out["total_net_worth"])
	sum := dec(t, out["liquidity"]).
		Add(dec(t, out["investments"])).
		Add(dec(t, out["property"])).
		Add(dec(t, out["liabilities"]))
	assert.True(t, total.Equal(sum))
}
