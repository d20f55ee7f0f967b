package entry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := JournalEntryEvent{
		UserID:    uuid.New(),
		Content:   "a fine day",
		WordCount: 3,
		CreatedAt: time.Now(),
	}
	assert.NoError(t, valid.Validate())

	missingUser := valid
	missingUser.UserID = uuid.Nil
	assert.ErrorIs(t, missingUser.Validate(), ErrMissingUser)

	negative := valid
	negative.WordCount = -1
	assert.ErrorIs(t, negative.Validate(), ErrNegativeWords)

	noTimestamp := valid
	noTimestamp.CreatedAt = time.Time{}
	assert.ErrorIs(t, noTimestamp.Validate(), ErrMissingCreatedAt)
}
