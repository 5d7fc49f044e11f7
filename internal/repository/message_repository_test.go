package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(id, conversationID, sender, body string) *entity.Message {
	return &entity.Message{
		ID:             id,
		ConversationID: conversationID,
		Sender:         sender,
		Body:           body,
		CreatedAt:      time.Now(),
	}
}

func TestAppendAssignsIncreasingSeq(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	first, err := repo.Append(testMessage("m1", "chat", "alice", "hello"))
	require.NoError(t, err)
	second, err := repo.Append(testMessage("m2", "other-chat", "bob", "hi"))
	require.NoError(t, err)
	third, err := repo.Append(testMessage("m3", "chat", "alice", "anyone?"))
	require.NoError(t, err)

	// The sequence is store-wide, not per conversation.
	assert.Equal(t, first+1, second)
	assert.Equal(t, second+1, third)
}

func TestListOrdersBySeqAndFiltersByConversation(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	_, err := repo.Append(testMessage("m1", "chat", "alice", "one"))
	require.NoError(t, err)
	_, err = repo.Append(testMessage("mx", "other-chat", "bob", "noise"))
	require.NoError(t, err)
	_, err = repo.Append(testMessage("m2", "chat", "bob", "two"))
	require.NoError(t, err)

	messages, err := repo.List("chat")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Less(t, messages[0].Seq, messages[1].Seq)
}

func TestListEmptyConversation(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	messages, err := repo.List("nothing-here")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestConcurrentAppendsKeepSeqUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	const writers = 8
	seqs := make([]uint64, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq, err := repo.Append(testMessage(fmt.Sprintf("m%d", i), "chat", "alice", "racing"))
			if err != nil {
				t.Errorf("Append failed: %v", err)
				return
			}
			seqs[i] = seq
		}(i)
	}
	wg.Wait()

	seen := map[uint64]struct{}{}
	for _, seq := range seqs {
		if _, dup := seen[seq]; dup {
			t.Fatalf("Sequence %d assigned twice", seq)
		}
		seen[seq] = struct{}{}
	}
}

func TestSoftDeleteReplacesBody(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	_, err := repo.Append(testMessage("m1", "chat", "alice", "regrettable"))
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete("m1", "alice"))

	message, err := repo.GetByID("m1")
	require.NoError(t, err)
	assert.True(t, message.Deleted)
	assert.Equal(t, entity.DeletedBody, message.Body)
	assert.Equal(t, "alice", message.Sender)
}

func TestSoftDeleteRepeatedIsNoOp(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	_, err := repo.Append(testMessage("m1", "chat", "alice", "twice"))
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete("m1", "alice"))
	require.NoError(t, repo.SoftDelete("m1", "alice"))

	message, err := repo.GetByID("m1")
	require.NoError(t, err)
	assert.True(t, message.Deleted)
	assert.Equal(t, entity.DeletedBody, message.Body)
}

func TestSoftDeleteRefusesNonSender(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	_, err := repo.Append(testMessage("m1", "chat", "alice", "mine"))
	require.NoError(t, err)

	err = repo.SoftDelete("m1", "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotSender))

	message, err := repo.GetByID("m1")
	require.NoError(t, err)
	assert.False(t, message.Deleted)
	assert.Equal(t, "mine", message.Body)
}

func TestSoftDeleteMissingMessage(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	err := repo.SoftDelete("ghost", "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMessageNotFound))
}

func TestGetByIDMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteMessageRepository(db)

	_, err := repo.GetByID("ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMessageNotFound))
}
