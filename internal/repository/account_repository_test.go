package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(uuid, name string) *entity.Account {
	return &entity.Account{
		UUID:      uuid,
		Name:      name,
		CreatedAt: time.Now(),
		Secret: entity.AccountSecret{
			AccountUUID: uuid,
			Hash:        "not-a-real-hash",
		},
	}
}

func TestCreateRejectsTakenName(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteAccountRepository(db)

	require.NoError(t, repo.Create(testAccount("u1", "alice")))

	err := repo.Create(testAccount("u2", "alice"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNameTaken))
}

func TestGetByNameAndUUID(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteAccountRepository(db)

	require.NoError(t, repo.Create(testAccount("u1", "alice")))

	byName, err := repo.GetByName("alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.UUID)

	byUUID, err := repo.GetByUUID("u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byUUID.Name)

	_, err = repo.GetByName("nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAccountNotFound))
}

func TestGetForLoginCarriesSecret(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteAccountRepository(db)

	require.NoError(t, repo.Create(testAccount("u1", "alice")))

	account, err := repo.GetForLogin("alice")
	require.NoError(t, err)
	assert.Equal(t, "not-a-real-hash", account.Secret.Hash)
}

func TestFriendshipIsSymmetric(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteAccountRepository(db)

	require.NoError(t, repo.Create(testAccount("u1", "alice")))
	require.NoError(t, repo.Create(testAccount("u2", "bob")))

	require.NoError(t, repo.AddFriendship("u1", "u2"))

	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
		friends, err := repo.AreFriends(pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, friends)
	}

	aliceFriends, err := repo.Friends("u1")
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, "bob", aliceFriends[0].Name)

	require.NoError(t, repo.RemoveFriendship("u2", "u1"))
	friends, err := repo.AreFriends("u1", "u2")
	require.NoError(t, err)
	assert.False(t, friends)
}

func TestFriendRequestLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteAccountRepository(db)

	require.NoError(t, repo.Create(testAccount("u1", "alice")))
	require.NoError(t, repo.Create(testAccount("u2", "bob")))

	require.NoError(t, repo.CreateRequest("u1", "u2"))

	// Filing the same request again is refused while it is pending.
	err := repo.CreateRequest("u1", "u2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrRequestPending))

	incoming, err := repo.PendingIncoming("u2")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "u1", incoming[0].FromUUID)

	outgoing, err := repo.PendingOutgoing("u1")
	require.NoError(t, err)
	assert.Len(t, outgoing, 1)

	existed, err := repo.DeleteRequest("u1", "u2")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.DeleteRequest("u1", "u2")
	require.NoError(t, err)
	assert.False(t, existed)
}
