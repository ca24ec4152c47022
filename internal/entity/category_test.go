package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
		assert.NotEmpty(t, got.Table())
	}

	_, err := ParseCategory("new_client")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCategoryFieldsEndWithRatingAndFeedback(t *testing.T) {
	for _, c := range Categories() {
		fields := c.Fields()
		require.GreaterOrEqual(t, len(fields), 2)
		assert.Equal(t, FieldRating, fields[len(fields)-2], c)
		assert.Equal(t, FieldFeedback, fields[len(fields)-1], c)
	}

	assert.True(t, CategoryJobSeeker.HasField(FieldLinkedInURL))
	assert.False(t, CategoryProspect.HasField(FieldLinkedInURL))
}

func TestRecordDateTimeSplit(t *testing.T) {
	r := &Record{CreatedAt: time.Date(2024, 2, 20, 9, 5, 7, 0, time.UTC)}

	assert.Equal(t, "2024-02-20", r.Date())
	assert.Equal(t, "09:05:07", r.Time())
	assert.Equal(t, "", r.Answer(FieldRating))
	assert.False(t, r.Notified())
}
