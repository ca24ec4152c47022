package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/queue"
)

const MsgDetailsCollected = "User details collected successfully."

var clientTypes = map[string]ClientTypeOutput{
	"1": {Message: "Welcome, New client!", Category: entity.CategoryProspect},
	"2": {Message: "Welcome, existing client!", Category: entity.CategoryExistingClient},
	"3": {Message: "Welcome, Job seeker!", Category: entity.CategoryJobSeeker},
	"4": {Message: "Bye!"},
}

type ConversationUseCase struct {
	Repo     RecordRepository
	Notifier Notifier
	Events   EventPublisher
	Flows    map[entity.Category]Flow
	Logger   *zap.Logger
}

// NewConversationUseCase wires the default step tables. events may be nil
// when no broker is configured.
func NewConversationUseCase(repo RecordRepository, notifier Notifier, events EventPublisher, logger *zap.Logger) *ConversationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationUseCase{
		Repo:     repo,
		Notifier: notifier,
		Events:   events,
		Flows:    DefaultFlows(),
		Logger:   logger,
	}
}

// SelectClientType answers the opening menu of the chatbot.
func (uc *ConversationUseCase) SelectClientType(code string) (*ClientTypeOutput, error) {
	out, ok := clientTypes[strings.TrimSpace(code)]
	if !ok {
		return nil, validationError("client_type", "Invalid option. Please choose a valid option.")
	}
	return &out, nil
}

// Flow returns the step table of a category.
func (uc *ConversationUseCase) Flow(category entity.Category) (Flow, error) {
	flow, ok := uc.Flows[category]
	if !ok {
		return Flow{}, notFoundError("Unknown visitor category.")
	}
	return flow, nil
}

// CreateRecord runs the details step: it validates the contact triple and
// creates the row every later step refers to.
func (uc *ConversationUseCase) CreateRecord(ctx context.Context, category entity.Category, input DetailsInput) (*DetailsOutput, error) {
	if _, err := uc.Flow(category); err != nil {
		return nil, err
	}
	trimmed := DetailsInput{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Contact: strings.TrimSpace(input.Contact),
	}
	if derr := ValidateDetails(trimmed); derr != nil {
		return nil, derr
	}

	// Stored exactly as submitted; only validation sees the trimmed values.
	record := entity.NewRecord(category, input.IP, input.Name, input.Email, input.Contact, input.Company)

	id, err := uc.Repo.Create(ctx, record)
	if err != nil {
		uc.Logger.Error("failed to create record", zap.String("category", string(category)), zap.Error(err))
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to create record", Err: err}
	}

	uc.Logger.Info("conversation started",
		zap.String("category", string(category)),
		zap.Int64("row_id", id),
	)
	return &DetailsOutput{RowID: id, Message: MsgDetailsCollected}, nil
}

// AnswerStep validates and persists one answer. Terminal steps also send
// the conversation summary, at most once per record.
func (uc *ConversationUseCase) AnswerStep(ctx context.Context, category entity.Category, stepName string, input AnswerInput) (*AnswerOutput, error) {
	flow, err := uc.Flow(category)
	if err != nil {
		return nil, err
	}
	step, ok := flow.Step(stepName)
	if !ok {
		return nil, notFoundError("Unknown conversation step.")
	}
	if input.RowID <= 0 {
		return nil, validationError("row_id", MsgMissingRowID)
	}

	values, derr := step.Resolve(input)
	if derr != nil {
		return nil, derr
	}
	value := joinValues(values)

	out := &AnswerOutput{
		RowID:   input.RowID,
		Step:    step,
		Values:  values,
		Message: step.ReplyFor(value),
	}

	log := uc.Logger.With(
		zap.String("category", string(category)),
		zap.String("step", step.Name),
		zap.Int64("row_id", input.RowID),
	)

	if !step.Terminal {
		if err := uc.Repo.UpdateField(ctx, category, input.RowID, step.Field, value); err != nil {
			return nil, uc.persistError(log, input.RowID, err)
		}
		log.Info("answer saved", zap.String("value", value))
		return out, nil
	}

	claimed, err := uc.Repo.Complete(ctx, category, input.RowID, step.Field, value)
	if err != nil {
		return nil, uc.persistError(log, input.RowID, err)
	}
	log.Info("terminal answer saved", zap.String("value", value), zap.Bool("notification_claimed", claimed))
	if !claimed {
		return out, nil
	}

	record, err := uc.Repo.FindByID(ctx, category, input.RowID)
	if err != nil {
		return nil, uc.persistError(log, input.RowID, err)
	}
	if err := uc.Notifier.Notify(ctx, record); err != nil {
		log.Error("failed to send conversation summary", zap.Error(err))
		return nil, &TechnicalError{Code: CodeNotification, Message: "failed to send conversation summary", Err: err}
	}
	out.Notified = true
	log.Info("conversation summary sent")

	uc.publishCompleted(ctx, log, record)
	return out, nil
}

func (uc *ConversationUseCase) publishCompleted(ctx context.Context, log *zap.Logger, record *entity.Record) {
	if uc.Events == nil {
		return
	}
	answers := make(map[string]string, len(record.Answers))
	for field, v := range record.Answers {
		answers[string(field)] = v
	}
	payload := queue.CompletedPayload{
		Category:    string(record.Category),
		RowID:       record.ID,
		Name:        record.Name,
		Email:       record.Email,
		Contact:     record.Contact,
		Company:     record.Company,
		Answers:     answers,
		CompletedAt: time.Now().UTC(),
	}
	if err := uc.Events.PublishCompleted(ctx, payload); err != nil {
		log.Warn("failed to publish conversation.completed", zap.Error(err))
	}
}

func (uc *ConversationUseCase) persistError(log *zap.Logger, id int64, err error) error {
	if errors.Is(err, entity.ErrRecordNotFound) {
		log.Debug("record not found")
		return notFoundError(fmt.Sprintf("No conversation found for row_id %d.", id))
	}
	log.Error("failed to persist answer", zap.Error(err))
	return &TechnicalError{Code: CodeDatabase, Message: "failed to persist answer", Err: err}
}

func joinValues(values []string) string {
	return strings.Join(values, ",")
}
