package services_test

import (
	"context"
	"fmt"
	"testing"

	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DataServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTransactionRepository
	service  portssvc.DataSvc
}

func (suite *DataServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTransactionRepository)
	suite.service = services.NewDataService(suite.mockRepo)
}

func (suite *DataServiceTestSuite) TestDeleteAllData_ReportsCount() {
	suite.mockRepo.On("DeleteAll", mock.Anything).Return(int64(42), nil).Once()

	result, err := suite.service.DeleteAllData(context.Background())

	suite.Require().NoError(err)
	suite.Equal(int64(42), result.TransactionsDeleted)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DataServiceTestSuite) TestDeleteAllData_RepoErrorPropagates() {
	suite.mockRepo.On("DeleteAll", mock.Anything).Return(int64(0), fmt.Errorf("connection refused")).Once()

	_, err := suite.service.DeleteAllData(context.Background())

	suite.Require().Error(err)
	suite.Contains(err.Error(), "connection refused")
}

func TestDataServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DataServiceTestSuite))
}
