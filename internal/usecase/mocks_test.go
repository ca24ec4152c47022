package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/queue"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, r *entity.Record) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) UpdateField(ctx context.Context, category entity.Category, id int64, field entity.Field, value string) error {
	return m.Called(ctx, category, id, field, value).Error(0)
}

func (m *MockRecordRepository) Complete(ctx context.Context, category entity.Category, id int64, field entity.Field, value string) (bool, error) {
	args := m.Called(ctx, category, id, field, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, category entity.Category, id int64) (*entity.Record, error) {
	args := m.Called(ctx, category, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Record), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, r *entity.Record) error {
	return m.Called(ctx, r).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCompleted(ctx context.Context, payload queue.CompletedPayload) error {
	return m.Called(ctx, payload).Error(0)
}

type MockIPLocator struct {
	mock.Mock
}

func (m *MockIPLocator) PublicIP(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockIPLocator) City(ctx context.Context, ip string) (string, error) {
	args := m.Called(ctx, ip)
	return args.String(0), args.Error(1)
}

type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Condition(ctx context.Context, city string) (string, error) {
	args := m.Called(ctx, city)
	return args.String(0), args.Error(1)
}
