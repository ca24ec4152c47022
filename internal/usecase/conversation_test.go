package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
	"github.com/xavierca1/bizdev-chatbot/internal/infra/queue"
)

func newConversation() (*ConversationUseCase, *MockRecordRepository, *MockNotifier) {
	repo := new(MockRecordRepository)
	notifier := new(MockNotifier)
	return NewConversationUseCase(repo, notifier, nil, nil), repo, notifier
}

func TestSelectClientType(t *testing.T) {
	uc, _, _ := newConversation()

	out, err := uc.SelectClientType("2")
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryExistingClient, out.Category)

	out, err = uc.SelectClientType("4")
	require.NoError(t, err)
	assert.Equal(t, "Bye!", out.Message)
	assert.Empty(t, out.Category)

	_, err = uc.SelectClientType("7")
	assert.True(t, IsDomainError(err))
}

func TestCreateRecord(t *testing.T) {
	uc, repo, _ := newConversation()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.Record) bool {
		return r.Category == entity.CategoryProspect &&
			r.Name == "  Ada Lovelace " &&
			r.Company == "Analytical Engines" &&
			r.IP == "203.0.113.9" &&
			!r.CreatedAt.IsZero()
	})).Return(int64(1), nil).Once()

	out, err := uc.CreateRecord(context.Background(), entity.CategoryProspect, DetailsInput{
		Name:    "  Ada Lovelace ",
		Email:   "ada@example.com",
		Contact: "+1-212-555-0100",
		Company: "Analytical Engines",
		IP:      "203.0.113.9",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out.RowID)
	assert.Equal(t, MsgDetailsCollected, out.Message)
	repo.AssertExpectations(t)
}

func TestCreateRecordValidatesTrimmedValues(t *testing.T) {
	uc, repo, _ := newConversation()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.Record) bool {
		return r.Email == " ada@example.com " && r.Contact == " +1-212-555-0100"
	})).Return(int64(4), nil).Once()

	out, err := uc.CreateRecord(context.Background(), entity.CategoryExistingClient, DetailsInput{
		Name:    "Ada Lovelace",
		Email:   " ada@example.com ",
		Contact: " +1-212-555-0100",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), out.RowID)
	repo.AssertExpectations(t)
}

func TestCreateRecordFirstValidationFailureWins(t *testing.T) {
	uc, repo, _ := newConversation()

	_, err := uc.CreateRecord(context.Background(), entity.CategoryProspect, DetailsInput{
		Name:    "Ada Lovelace",
		Email:   "not-an-email",
		Contact: "abc",
	})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, "email", de.Field)
	assert.Equal(t, MsgInvalidEmail, de.Message)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRecordDatabaseFailure(t *testing.T) {
	uc, repo, _ := newConversation()
	repo.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

	_, err := uc.CreateRecord(context.Background(), entity.CategoryJobSeeker, DetailsInput{
		Name: "Ada", Email: "ada@example.com", Contact: "+1-212-555-0100",
	})

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeDatabase, te.Code)
}

func TestAnswerStepPersistsJoinedLabels(t *testing.T) {
	uc, repo, notifier := newConversation()
	repo.On("UpdateField", mock.Anything, entity.CategoryProspect, int64(1), entity.FieldIndustry, "Insurance,Technology").
		Return(nil).Once()

	out, err := uc.AnswerStep(context.Background(), entity.CategoryProspect, "industries", AnswerInput{
		RowID: 1,
		Codes: []string{"1", "7", "1"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Insurance", "Technology"}, out.Values)
	assert.Equal(t, "Insurance,Technology", out.Value())
	assert.False(t, out.Notified)
	repo.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestAnswerStepRejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name    string
		step    string
		input   AnswerInput
		wantMsg string
	}{
		{"unknown code", "industries", AnswerInput{RowID: 1, Codes: []string{"1", "11"}}, MsgInvalidOption},
		{"no codes", "verticals", AnswerInput{RowID: 1}, MsgInvalidOption},
		{"other without text", "industries", AnswerInput{RowID: 1, Codes: []string{"10"}}, `Please specify your option for "Others".`},
		{"missing row", "industries", AnswerInput{Codes: []string{"1"}}, MsgMissingRowID},
		{"empty feedback", "feedback", AnswerInput{RowID: 1, Text: "   "}, MsgEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newConversation()

			_, err := uc.AnswerStep(context.Background(), entity.CategoryProspect, tt.step, tt.input)

			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, CodeValidation, de.Code)
			assert.Equal(t, tt.wantMsg, de.Message)
			assert.Empty(t, repo.Calls)
		})
	}
}

func TestAnswerStepUnknownStep(t *testing.T) {
	uc, _, _ := newConversation()

	_, err := uc.AnswerStep(context.Background(), entity.CategoryJobSeeker, "industries", AnswerInput{RowID: 1})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotFound, de.Code)
}

func TestAnswerStepUnknownRow(t *testing.T) {
	uc, repo, _ := newConversation()
	repo.On("UpdateField", mock.Anything, entity.CategoryExistingClient, int64(9), entity.FieldIssueText, "Login broken").
		Return(entity.ErrRecordNotFound)

	_, err := uc.AnswerStep(context.Background(), entity.CategoryExistingClient, "issue_description", AnswerInput{
		RowID: 9,
		Text:  " Login broken ",
	})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, "No conversation found for row_id 9.", de.Message)
}

func TestAnswerStepReplyPerLabel(t *testing.T) {
	uc, repo, _ := newConversation()
	repo.On("UpdateField", mock.Anything, entity.CategoryExistingClient, int64(3), entity.FieldIssueType, "Urgent").Return(nil)

	out, err := uc.AnswerStep(context.Background(), entity.CategoryExistingClient, "issue_type", AnswerInput{
		RowID: 3,
		Codes: []string{"2"},
	})

	require.NoError(t, err)
	assert.Contains(t, out.Message, "urgent")
}

func TestTerminalStepNotifiesWithFreshRecord(t *testing.T) {
	repo := new(MockRecordRepository)
	notifier := new(MockNotifier)
	events := new(MockEventPublisher)
	uc := NewConversationUseCase(repo, notifier, events, nil)

	fresh := &entity.Record{
		ID:       1,
		Category: entity.CategoryProspect,
		Name:     "Ada Lovelace",
		Answers: map[entity.Field]string{
			entity.FieldIndustry: "Insurance,Technology",
			entity.FieldRating:   "Outstanding",
		},
	}
	repo.On("Complete", mock.Anything, entity.CategoryProspect, int64(1), entity.FieldRating, "Outstanding").Return(true, nil).Once()
	repo.On("FindByID", mock.Anything, entity.CategoryProspect, int64(1)).Return(fresh, nil).Once()
	notifier.On("Notify", mock.Anything, fresh).Return(nil).Once()
	events.On("PublishCompleted", mock.Anything, mock.MatchedBy(func(p queue.CompletedPayload) bool {
		return p.RowID == 1 && p.Answers["rating"] == "Outstanding"
	})).Return(nil).Once()

	out, err := uc.AnswerStep(context.Background(), entity.CategoryProspect, "rate", AnswerInput{
		RowID: 1,
		Codes: []string{"5"},
	})

	require.NoError(t, err)
	assert.True(t, out.Notified)
	assert.Equal(t, "Outstanding", out.Value())
	mock.AssertExpectationsForObjects(t, repo, notifier, events)
}

func TestReplayedTerminalStepDoesNotNotify(t *testing.T) {
	uc, repo, notifier := newConversation()
	repo.On("Complete", mock.Anything, entity.CategoryProspect, int64(1), entity.FieldRating, mock.Anything).Return(true, nil).Once()
	repo.On("Complete", mock.Anything, entity.CategoryProspect, int64(1), entity.FieldRating, mock.Anything).Return(false, nil).Once()
	repo.On("FindByID", mock.Anything, entity.CategoryProspect, int64(1)).
		Return(&entity.Record{ID: 1, Category: entity.CategoryProspect}, nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

	for _, code := range []string{"5", "4"} {
		_, err := uc.AnswerStep(context.Background(), entity.CategoryProspect, "rate", AnswerInput{RowID: 1, Codes: []string{code}})
		require.NoError(t, err)
	}

	notifier.AssertNumberOfCalls(t, "Notify", 1)
	repo.AssertExpectations(t)
}

func TestTerminalStepNotificationFailure(t *testing.T) {
	uc, repo, notifier := newConversation()
	repo.On("Complete", mock.Anything, entity.CategoryJobSeeker, int64(2), entity.FieldFeedback, "Great").Return(true, nil)
	repo.On("FindByID", mock.Anything, entity.CategoryJobSeeker, int64(2)).
		Return(&entity.Record{ID: 2, Category: entity.CategoryJobSeeker}, nil)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("relay unavailable"))

	_, err := uc.AnswerStep(context.Background(), entity.CategoryJobSeeker, "feedback", AnswerInput{RowID: 2, Text: "Great"})

	var te *TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, CodeNotification, te.Code)
	assert.False(t, IsDomainError(err))
}

func TestPublishFailureDoesNotFailStep(t *testing.T) {
	repo := new(MockRecordRepository)
	notifier := new(MockNotifier)
	events := new(MockEventPublisher)
	uc := NewConversationUseCase(repo, notifier, events, nil)

	repo.On("Complete", mock.Anything, mock.Anything, int64(1), mock.Anything, mock.Anything).Return(true, nil)
	repo.On("FindByID", mock.Anything, mock.Anything, int64(1)).
		Return(&entity.Record{ID: 1, Category: entity.CategoryExistingClient}, nil)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil)
	events.On("PublishCompleted", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	out, err := uc.AnswerStep(context.Background(), entity.CategoryExistingClient, "rate", AnswerInput{RowID: 1, Codes: []string{"1"}})

	require.NoError(t, err)
	assert.True(t, out.Notified)
}
