package access

import (
	"context"
	"errors"
	"testing"

	apperrors "gigpay/internal/errors"
	"gigpay/internal/models"
	"gigpay/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockJobs struct {
	mock.Mock
}

func (m *MockJobs) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

type MockContracts struct {
	mock.Mock
}

func (m *MockContracts) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func TestGuard_ResolvePayableJob(t *testing.T) {
	storageErr := errors.New("connection reset")

	tests := []struct {
		name      string
		callerID  uint
		setupMock func(*MockJobs, *MockContracts)
		wantErr   error
		wantCause string
	}{
		{
			name:     "payable job",
			callerID: 1,
			setupMock: func(j *MockJobs, c *MockContracts) {
				j.On("GetByID", mock.Anything, uint(10)).Return(&models.Job{ID: 10, ContractID: 3, Price: 200}, nil)
				c.On("GetByID", mock.Anything, uint(3)).Return(&models.Contract{ID: 3, ClientID: 1, ContractorID: 5}, nil)
			},
		},
		{
			name:     "missing job",
			callerID: 1,
			setupMock: func(j *MockJobs, c *MockContracts) {
				j.On("GetByID", mock.Anything, uint(10)).Return(nil, repositories.ErrJobNotFound)
			},
			wantErr:   apperrors.ErrNotFound,
			wantCause: "job 10 does not exist",
		},
		{
			name:     "already paid",
			callerID: 1,
			setupMock: func(j *MockJobs, c *MockContracts) {
				j.On("GetByID", mock.Anything, uint(10)).Return(&models.Job{ID: 10, ContractID: 3, Paid: true}, nil)
			},
			wantErr:   apperrors.ErrNotFound,
			wantCause: "job 10 is already paid",
		},
		{
			name:     "caller is the contractor",
			callerID: 5,
			setupMock: func(j *MockJobs, c *MockContracts) {
				j.On("GetByID", mock.Anything, uint(10)).Return(&models.Job{ID: 10, ContractID: 3}, nil)
				c.On("GetByID", mock.Anything, uint(3)).Return(&models.Contract{ID: 3, ClientID: 1, ContractorID: 5}, nil)
			},
			wantErr:   apperrors.ErrNotFound,
			wantCause: "profile 5 is not the client of contract 3",
		},
		{
			name:     "storage failure is not masked",
			callerID: 1,
			setupMock: func(j *MockJobs, c *MockContracts) {
				j.On("GetByID", mock.Anything, uint(10)).Return(nil, storageErr)
			},
			wantErr: storageErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := new(MockJobs)
			contracts := new(MockContracts)
			tt.setupMock(jobs, contracts)

			g := NewGuard(jobs, contracts, nil)
			job, contract, err := g.ResolvePayableJob(context.Background(), tt.callerID, 10)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, job)
				assert.Nil(t, contract)
				if tt.wantCause != "" {
					assert.Equal(t, "not found", err.Error())
					assert.Equal(t, tt.wantCause, apperrors.Cause(err))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(10), job.ID)
				assert.Equal(t, uint(3), contract.ID)
			}

			jobs.AssertExpectations(t)
			contracts.AssertExpectations(t)
		})
	}
}

func TestGuard_NotFoundIsIndistinguishable(t *testing.T) {
	jobs := new(MockJobs)
	contracts := new(MockContracts)
	jobs.On("GetByID", mock.Anything, uint(1)).Return(nil, repositories.ErrJobNotFound)
	jobs.On("GetByID", mock.Anything, uint(2)).Return(&models.Job{ID: 2, ContractID: 3, Paid: true}, nil)
	jobs.On("GetByID", mock.Anything, uint(3)).Return(&models.Job{ID: 3, ContractID: 3}, nil)
	contracts.On("GetByID", mock.Anything, uint(3)).Return(&models.Contract{ID: 3, ClientID: 8, ContractorID: 9}, nil)

	g := NewGuard(jobs, contracts, nil)
	var messages []string
	for _, id := range []uint{1, 2, 3} {
		_, _, err := g.ResolvePayableJob(context.Background(), 4, id)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		messages = append(messages, err.Error())
	}
	assert.Equal(t, []string{"not found", "not found", "not found"}, messages)
}
