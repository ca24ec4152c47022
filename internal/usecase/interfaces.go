package usecase

import (
	"context"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/queue"
)

type RecordRepository interface {
	Create(ctx context.Context, r *entity.Record) (int64, error)
	UpdateField(ctx context.Context, category entity.Category, id int64, field entity.Field, value string) error
	// Complete stores the terminal answer and claims that step's
	// notification in the same transaction. rating and feedback each hold
	// their own claim; claimed is false when the step was already answered.
	Complete(ctx context.Context, category entity.Category, id int64, field entity.Field, value string) (claimed bool, err error)
	FindByID(ctx context.Context, category entity.Category, id int64) (*entity.Record, error)
}

type Notifier interface {
	Notify(ctx context.Context, r *entity.Record) error
}

type EventPublisher interface {
	PublishCompleted(ctx context.Context, payload queue.CompletedPayload) error
}

type IPLocator interface {
	PublicIP(ctx context.Context) (string, error)
	City(ctx context.Context, ip string) (string, error)
}

type WeatherProvider interface {
	// Condition returns the lower-cased main weather condition for a city.
	Condition(ctx context.Context, city string) (string, error)
}
