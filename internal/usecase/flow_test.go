package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
)

func TestDefaultFlowsMatchCategoryFields(t *testing.T) {
	flows := DefaultFlows()

	for _, c := range entity.Categories() {
		flow, ok := flows[c]
		require.True(t, ok, c)

		var fields []entity.Field
		for _, s := range flow.Steps {
			fields = append(fields, s.Field)
			assert.NotEmpty(t, s.ResponseKey, s.Name)
			if s.Kind != FreeText {
				assert.NotEmpty(t, s.Options, s.Name)
			}
		}
		assert.Equal(t, c.Fields(), fields, c)

		last := flow.Steps[len(flow.Steps)-1]
		assert.True(t, last.Terminal)
		assert.Equal(t, "feedback", last.Name)
	}
}

func TestOtherCodesAreOptions(t *testing.T) {
	for _, flow := range DefaultFlows() {
		for _, s := range flow.Steps {
			for _, code := range s.OtherCodes {
				_, ok := s.label(code)
				assert.True(t, ok, "%s/%s other code %s", flow.Category, s.Name, code)
			}
		}
	}
}

func TestResolveSingleChoice(t *testing.T) {
	step, ok := DefaultFlows()[entity.CategoryProspect].Step("requirement")
	require.True(t, ok)

	values, err := step.Resolve(AnswerInput{Codes: []string{" 2 "}})
	require.Nil(t, err)
	assert.Equal(t, []string{"Require support from existing project"}, values)

	_, err = step.Resolve(AnswerInput{Codes: []string{"1", "2"}})
	require.NotNil(t, err)
	assert.Equal(t, MsgInvalidOption, err.Message)

	values, err = step.Resolve(AnswerInput{Codes: []string{"4"}, Specification: " Staff augmentation "})
	require.Nil(t, err)
	assert.Equal(t, []string{"Others : Staff augmentation"}, values)
}

func TestResolveMultiChoiceOther(t *testing.T) {
	step, _ := DefaultFlows()[entity.CategoryProspect].Step("industries")

	values, err := step.Resolve(AnswerInput{Codes: []string{"2", "10"}, Specification: "Mining"})

	require.Nil(t, err)
	assert.Equal(t, []string{"Banking", "Others : Mining"}, values)
}

func TestResolveFreeTextValidator(t *testing.T) {
	step, _ := DefaultFlows()[entity.CategoryJobSeeker].Step("linkedin")

	_, err := step.Resolve(AnswerInput{Text: "ada.dev"})
	require.NotNil(t, err)
	assert.Equal(t, MsgInvalidURL, err.Message)

	values, err := step.Resolve(AnswerInput{Text: " https://linkedin.com/in/ada "})
	require.Nil(t, err)
	assert.Equal(t, []string{"https://linkedin.com/in/ada"}, values)
}

func TestRatingLabels(t *testing.T) {
	step := rateStep()
	want := []string{"Requires Improvement", "Acceptable", "Above Average", "Excellent", "Outstanding"}

	for i, label := range want {
		values, err := step.Resolve(AnswerInput{Codes: []string{string(rune('1' + i))}})
		require.Nil(t, err)
		assert.Equal(t, []string{label}, values)
	}
}

func TestRatingRejectsOutOfRange(t *testing.T) {
	step, ok := DefaultFlows()[entity.CategoryJobSeeker].Step("rate")
	require.True(t, ok)

	for _, codes := range [][]string{{"6"}, {"0"}, nil} {
		_, err := step.Resolve(AnswerInput{Codes: codes})
		require.NotNil(t, err)
		assert.Equal(t, MsgInvalidRating, err.Message)
	}
}

func TestStepKindString(t *testing.T) {
	assert.Equal(t, "multi_choice", MultiChoice.String())
	assert.Equal(t, "unknown", StepKind(42).String())
}
