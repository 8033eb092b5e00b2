package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendinganalytics/spending_analytics_app/internal/apperrors"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTransactionRepository
	service  portssvc.SubscriptionSvc
	now      time.Time
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.now = time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	suite.service = services.NewSubscriptionService(suite.mockRepo,
		services.WithSubscriptionClock(func() time.Time { return suite.now }))
}

func subTxn(merchant string, date time.Time, amount float64) domain.Transaction {
	return domain.Transaction{
		TransactionID: merchant + date.Format("20060102"),
		Date:          date,
		Merchant:      merchant,
		Amount:        decimal.NewFromFloat(amount),
	}
}

func (suite *SubscriptionServiceTestSuite) expectWindowQuery(txns []domain.Transaction) {
	suite.mockRepo.On("FindByDateRange", mock.Anything,
		suite.now.AddDate(0, -6, 0), suite.now).Return(txns, nil).Once()
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_MonthlyConstantAmount() {
	day := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		subTxn("NETFLIX", day, -99.90),
		subTxn("NETFLIX", day.AddDate(0, 1, 0), -99.90),
		subTxn("NETFLIX", day.AddDate(0, 2, 0), -99.90),
		subTxn("NETFLIX", day.AddDate(0, 3, 0), -99.90),
	}
	suite.expectWindowQuery(txns)

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	agg := result[0]
	suite.Equal("NETFLIX", agg.Merchant)
	suite.Equal(4, agg.TransactionCount)
	suite.True(agg.AvgAmount.Equal(decimal.NewFromFloat(99.90)))
	suite.InDelta(0.0, agg.VariancePercent, 0.0001)
	suite.Equal(domain.FrequencyMonthly, agg.Frequency)
	suite.True(agg.IsActive)
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_HighVarianceRejected() {
	day := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		subTxn("MIGROS", day, -50),
		subTxn("MIGROS", day.AddDate(0, 0, 30), -500),
		subTxn("MIGROS", day.AddDate(0, 0, 60), -120),
	}
	suite.expectWindowQuery(txns)

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_TooFewChargesRejected() {
	day := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		subTxn("SPOTIFY", day, -59.99),
		subTxn("SPOTIFY", day.AddDate(0, 1, 0), -59.99),
	}
	suite.expectWindowQuery(txns)

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_ZeroAmountsIgnored() {
	day := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		subTxn("SPOTIFY", day, -59.99),
		subTxn("SPOTIFY", day.AddDate(0, 1, 0), -59.99),
		subTxn("SPOTIFY", day.AddDate(0, 2, 0), 0),
	}
	suite.expectWindowQuery(txns)

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Empty(result)
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_WeeklyFrequency() {
	day := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		subTxn("GYM", day, -30),
		subTxn("GYM", day.AddDate(0, 0, 7), -30),
		subTxn("GYM", day.AddDate(0, 0, 14), -30),
		subTxn("GYM", day.AddDate(0, 0, 21), -30),
	}
	suite.expectWindowQuery(txns)

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(domain.FrequencyWeekly, result[0].Frequency)
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_InactiveWhenStale() {
	// Last charge more than 60 days before evaluation time.
	day := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		subTxn("OLDMAG", day, -25),
		subTxn("OLDMAG", day.AddDate(0, 1, 0), -25),
		subTxn("OLDMAG", day.AddDate(0, 2, 0), -25),
	}
	suite.expectWindowQuery(txns)

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.False(result[0].IsActive)
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_SortedByCountDesc() {
	day := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	var txns []domain.Transaction
	for i := 0; i < 3; i++ {
		txns = append(txns, subTxn("NETFLIX", day.AddDate(0, i, 0), -99.90))
	}
	for i := 0; i < 4; i++ {
		txns = append(txns, subTxn("SPOTIFY", day.AddDate(0, i, 0), -59.99))
	}
	suite.expectWindowQuery(txns)

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("SPOTIFY", result[0].Merchant)
	suite.Equal("NETFLIX", result[1].Merchant)
}

func (suite *SubscriptionServiceTestSuite) TestGetActive_FiltersOnFlag() {
	day := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	confirmed := subTxn("NETFLIX", day, -99.90)
	confirmed.IsSubscription = true
	other := subTxn("MIGROS", day, -250)
	suite.expectWindowQuery([]domain.Transaction{confirmed, other})

	result, err := suite.service.GetActiveSubscriptions(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal("NETFLIX", result[0].Merchant)
	suite.Equal(1, result[0].TransactionCount)
}

func (suite *SubscriptionServiceTestSuite) TestConfirm_FlagsTrailingYear() {
	suite.mockRepo.On("SetSubscriptionByMerchant", mock.Anything, "NETFLIX", true,
		suite.now.AddDate(0, -12, 0), suite.now).Return(int64(11), nil).Once()

	err := suite.service.ConfirmAsSubscription(context.Background(), "NETFLIX")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestUnmark_EmptyMerchantRejected() {
	err := suite.service.UnmarkAsSubscription(context.Background(), "")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SetSubscriptionByMerchant",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestFindPotential_RepoErrorPropagates() {
	suite.mockRepo.On("FindByDateRange", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("connection refused")).Once()

	result, err := suite.service.FindPotentialSubscriptions(context.Background())

	suite.Require().Error(err)
	suite.Nil(result)
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}
