package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockTransactionRepository is a mock type for the TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindExistingDedupHashes(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	args := m.Called(ctx, hashes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockTransactionRepository) SaveAll(ctx context.Context, txns []domain.Transaction) (map[string]struct{}, error) {
	args := m.Called(ctx, txns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindSpendingBetween(ctx context.Context, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumSpendingBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) SetSubscriptionByMerchant(ctx context.Context, merchant string, isSubscription bool, start, end time.Time) (int64, error) {
	args := m.Called(ctx, merchant, isSubscription, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite Setup ---

type ImportServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTransactionRepository
}

func (suite *ImportServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
}

// newServiceWithParses builds an import service whose parser resolves file
// content to a canned result.
func (suite *ImportServiceTestSuite) newServiceWithParses(parses map[string]parsedStub) portssvc.ImporterSvc {
	return services.NewImportService(suite.mockRepo,
		services.WithParseWorkers(2),
		services.WithParseFunc(func(data []byte, importedAt time.Time) ([]domain.Transaction, []string, error) {
			stub, ok := parses[string(data)]
			if !ok {
				return nil, nil, fmt.Errorf("unexpected content %q", string(data))
			}
			return stub.txns, stub.rowErrs, stub.err
		}),
	)
}

type parsedStub struct {
	txns    []domain.Transaction
	rowErrs []string
	err     error
}

func importTxn(hash, merchant string) domain.Transaction {
	return domain.Transaction{
		TransactionID: hash + "-id",
		Date:          time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		Merchant:      merchant,
		Amount:        decimal.NewFromInt(-120),
		DedupHash:     hash,
	}
}

// --- Test Cases ---

func (suite *ImportServiceTestSuite) TestImportBatch_AllNew() {
	ctx := context.Background()
	svc := suite.newServiceWithParses(map[string]parsedStub{
		"f1": {txns: []domain.Transaction{importTxn("h1", "Spotify"), importTxn("h2", "Migros")}},
	})

	suite.mockRepo.On("FindExistingDedupHashes", ctx, []string{"h1", "h2"}).
		Return(map[string]struct{}{}, nil).Once()
	suite.mockRepo.On("SaveAll", ctx, mock.AnythingOfType("[]domain.Transaction")).
		Return(map[string]struct{}{"h1": {}, "h2": {}}, nil).Once()

	result, err := svc.ImportBatch(ctx, []dto.FileUpload{{Filename: "jan.xlsx", Content: []byte("f1")}})

	suite.Require().NoError(err)
	suite.Equal(1, result.TotalFiles)
	suite.Equal(2, result.TotalRowsParsed)
	suite.Equal(2, result.TotalInserted)
	suite.Equal(0, result.TotalSkippedDuplicates)
	suite.Require().Len(result.Files, 1)
	suite.Equal("jan.xlsx", result.Files[0].FileName)
	suite.Equal(2, result.Files[0].Inserted)
	suite.Empty(result.Files[0].Errors)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_DuplicateAcrossFiles() {
	// The same transaction appears in two files: it is inserted once,
	// attributed to the first file, and counted as skipped in the second.
	ctx := context.Background()
	svc := suite.newServiceWithParses(map[string]parsedStub{
		"f1": {txns: []domain.Transaction{importTxn("h1", "Netflix")}},
		"f2": {txns: []domain.Transaction{importTxn("h1", "Netflix")}},
	})

	suite.mockRepo.On("FindExistingDedupHashes", ctx, []string{"h1"}).
		Return(map[string]struct{}{}, nil).Once()
	suite.mockRepo.On("SaveAll", ctx, mock.AnythingOfType("[]domain.Transaction")).
		Return(map[string]struct{}{"h1": {}}, nil).Once()

	result, err := svc.ImportBatch(ctx, []dto.FileUpload{
		{Filename: "a.xlsx", Content: []byte("f1")},
		{Filename: "b.xlsx", Content: []byte("f2")},
	})

	suite.Require().NoError(err)
	suite.Equal(1, result.TotalInserted)
	suite.Equal(1, result.TotalSkippedDuplicates)
	suite.Require().Len(result.Files, 2)
	suite.Equal(1, result.Files[0].Inserted)
	suite.Equal(0, result.Files[0].SkippedDuplicates)
	suite.Equal(0, result.Files[1].Inserted)
	suite.Equal(1, result.Files[1].SkippedDuplicates)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_ReimportIsIdempotent() {
	// Everything in the file is already persisted, so nothing is written.
	ctx := context.Background()
	svc := suite.newServiceWithParses(map[string]parsedStub{
		"f1": {txns: []domain.Transaction{importTxn("h1", "Spotify"), importTxn("h2", "Migros")}},
	})

	suite.mockRepo.On("FindExistingDedupHashes", ctx, []string{"h1", "h2"}).
		Return(map[string]struct{}{"h1": {}, "h2": {}}, nil).Once()

	result, err := svc.ImportBatch(ctx, []dto.FileUpload{{Filename: "jan.xlsx", Content: []byte("f1")}})

	suite.Require().NoError(err)
	suite.Equal(0, result.TotalInserted)
	suite.Equal(2, result.TotalSkippedDuplicates)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAll", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_FileErrorIsIsolated() {
	// One unreadable file reports an error entry; the other file still imports.
	ctx := context.Background()
	svc := suite.newServiceWithParses(map[string]parsedStub{
		"bad":  {err: fmt.Errorf("unknown statement format")},
		"good": {txns: []domain.Transaction{importTxn("h1", "Migros")}},
	})

	suite.mockRepo.On("FindExistingDedupHashes", ctx, []string{"h1"}).
		Return(map[string]struct{}{}, nil).Once()
	suite.mockRepo.On("SaveAll", ctx, mock.AnythingOfType("[]domain.Transaction")).
		Return(map[string]struct{}{"h1": {}}, nil).Once()

	result, err := svc.ImportBatch(ctx, []dto.FileUpload{
		{Filename: "bad.xlsx", Content: []byte("bad")},
		{Filename: "good.xlsx", Content: []byte("good")},
	})

	suite.Require().NoError(err)
	suite.Equal(2, result.TotalFiles)
	suite.Equal(1, result.TotalInserted)
	suite.Require().Len(result.Files, 2)
	suite.Equal([]string{"Error: unknown statement format"}, result.Files[0].Errors)
	suite.Equal(0, result.Files[0].RowsParsed)
	suite.Equal(1, result.Files[1].Inserted)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_RowErrorsAreReported() {
	ctx := context.Background()
	svc := suite.newServiceWithParses(map[string]parsedStub{
		"f1": {
			txns:    []domain.Transaction{importTxn("h1", "Migros")},
			rowErrs: []string{"Row 7: Missing Dekont No value"},
		},
	})

	suite.mockRepo.On("FindExistingDedupHashes", ctx, []string{"h1"}).
		Return(map[string]struct{}{}, nil).Once()
	suite.mockRepo.On("SaveAll", ctx, mock.AnythingOfType("[]domain.Transaction")).
		Return(map[string]struct{}{"h1": {}}, nil).Once()

	result, err := svc.ImportBatch(ctx, []dto.FileUpload{{Filename: "jan.xlsx", Content: []byte("f1")}})

	suite.Require().NoError(err)
	suite.Equal([]string{"Row 7: Missing Dekont No value"}, result.Files[0].Errors)
	suite.Equal(1, result.Files[0].Inserted)
}

func (suite *ImportServiceTestSuite) TestImportBatch_StorageFailureFailsBatch() {
	ctx := context.Background()
	svc := suite.newServiceWithParses(map[string]parsedStub{
		"f1": {txns: []domain.Transaction{importTxn("h1", "Migros")}},
	})

	suite.mockRepo.On("FindExistingDedupHashes", ctx, []string{"h1"}).
		Return(map[string]struct{}{}, nil).Once()
	suite.mockRepo.On("SaveAll", ctx, mock.AnythingOfType("[]domain.Transaction")).
		Return(nil, fmt.Errorf("connection refused")).Once()

	result, err := svc.ImportBatch(ctx, []dto.FileUpload{{Filename: "jan.xlsx", Content: []byte("f1")}})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ImportServiceTestSuite) TestImportBatch_LateRaceLoserCountsAsSkipped() {
	// SaveAll reports fewer hashes than it was given when a concurrent
	// import wins the unique-constraint race; those rows count as skipped.
	ctx := context.Background()
	svc := suite.newServiceWithParses(map[string]parsedStub{
		"f1": {txns: []domain.Transaction{importTxn("h1", "Spotify"), importTxn("h2", "Migros")}},
	})

	suite.mockRepo.On("FindExistingDedupHashes", ctx, []string{"h1", "h2"}).
		Return(map[string]struct{}{}, nil).Once()
	suite.mockRepo.On("SaveAll", ctx, mock.AnythingOfType("[]domain.Transaction")).
		Return(map[string]struct{}{"h2": {}}, nil).Once()

	result, err := svc.ImportBatch(ctx, []dto.FileUpload{{Filename: "jan.xlsx", Content: []byte("f1")}})

	suite.Require().NoError(err)
	suite.Equal(1, result.TotalInserted)
	suite.Equal(1, result.TotalSkippedDuplicates)
}

func TestImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ImportServiceTestSuite))
}
