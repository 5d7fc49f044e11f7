package chat

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Milad704/socialmedia/internal/data"
	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/live"
	"github.com/Milad704/socialmedia/internal/service"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/Milad704/socialmedia/pkg/nlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Uint64

type testEnv struct {
	api     *API
	hub     *live.Hub
	storage *data.StorageManager
}

// newTestEnv wires the whole conversation core over an in-memory database,
// the same way cmd/app does over a file-backed one.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:chattest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.StoreState{},
		&entity.Account{},
		&entity.AccountSecret{},
		&entity.Friendship{},
		&entity.FriendRequest{},
		&entity.Conversation{},
		&entity.ConversationMember{},
		&entity.Message{},
	))

	storage := data.NewStorageManager(db)
	hub := live.NewHub()
	subscriptions := live.NewManager(
		hub,
		storage.GetConversationRepository(),
		storage.GetMessageRepository(),
		storage.GetAccountRepository(),
		nlog.Discard,
	)
	directory := service.NewDirectoryService(storage.GetAccountRepository(), nlog.Discard)
	membership := NewMembershipManager(storage.GetConversationRepository(), nlog.Discard)
	fanout := NewFanoutEngine(membership, storage.GetMessageRepository(), hub, storage, nlog.Discard)

	return &testEnv{
		api:     NewAPI(directory, storage.GetConversationRepository(), membership, fanout, subscriptions, nlog.Discard),
		hub:     hub,
		storage: storage,
	}
}

func (env *testEnv) addAccount(t *testing.T, uuid, name string) {
	t.Helper()
	account := &entity.Account{
		UUID:      uuid,
		Name:      name,
		CreatedAt: time.Now(),
		Secret:    entity.AccountSecret{AccountUUID: uuid, Hash: "x"},
	}
	require.NoError(t, env.storage.GetAccountRepository().Create(account))
}

func TestEnsureDirectBothSidesShareOneConversation(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")

	fromAlice, err := env.api.EnsureDirect("u-alice", "bob")
	require.NoError(t, err)
	fromBob, err := env.api.EnsureDirect("u-bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, fromAlice, fromBob)

	conversation, err := env.storage.GetConversationRepository().GetByID(fromAlice)
	require.NoError(t, err)
	assert.Equal(t, entity.KindDirect, conversation.Kind)
	assert.Len(t, conversation.Members, 2)
}

func TestEnsureDirectRejectsSelfAndUnknownPeer(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")

	_, err := env.api.EnsureDirect("u-alice", "alice")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArg, apperr.CodeOf(err))

	_, err = env.api.EnsureDirect("u-alice", "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrAccountNotFound))
}

func TestGroupLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")
	env.addAccount(t, "u-cara", "cara")

	groupID, err := env.api.CreateGroup("u-alice", "Study Group", []string{"bob", "cara"})
	require.NoError(t, err)
	assert.Equal(t, "study_group", groupID)

	// Every member sees the group in their own listing.
	for _, uuid := range []string{"u-alice", "u-bob", "u-cara"} {
		groups, err := env.api.GroupsFor(uuid)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, groupID, groups[0].ID)
	}

	sent, err := env.api.SendTo(groupID, "u-bob", "hi all")
	require.NoError(t, err)

	messages, err := env.api.Messages(groupID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, sent.ID, messages[0].ID)
	assert.Equal(t, "u-bob", messages[0].Sender)
}

func TestCreateGroupNameTakenLeavesOriginalAlone(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")
	env.addAccount(t, "u-cara", "cara")

	_, err := env.api.CreateGroup("u-alice", "Study Group", []string{"bob"})
	require.NoError(t, err)

	_, err = env.api.CreateGroup("u-cara", "study group", []string{"bob"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrGroupNameTaken))

	members, err := env.storage.GetConversationRepository().Members("study_group")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestCreateGroupNeedsAtLeastOneOtherMember(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")

	_, err := env.api.CreateGroup("u-alice", "Lonely", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNoMembers))

	// Naming yourself does not count either.
	_, err = env.api.CreateGroup("u-alice", "Lonely", []string{"alice"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNoMembers))
}

func TestLeaveBlocksSendingButNotReading(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")
	env.addAccount(t, "u-cara", "cara")

	groupID, err := env.api.CreateGroup("u-alice", "Study Group", []string{"bob", "cara"})
	require.NoError(t, err)
	_, err = env.api.SendTo(groupID, "u-cara", "before leaving")
	require.NoError(t, err)

	require.NoError(t, env.api.Leave(groupID, "u-cara"))

	// The gate re-reads membership at send time.
	_, err = env.api.SendTo(groupID, "u-cara", "after leaving")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotAMember))

	// History stays readable for the departed member.
	messages, err := env.api.Messages(groupID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	groups, err := env.api.GroupsFor("u-cara")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestLeaveRefusedOnDirectAndForOutsiders(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")
	env.addAccount(t, "u-cara", "cara")

	directID, err := env.api.EnsureDirect("u-alice", "bob")
	require.NoError(t, err)
	err = env.api.Leave(directID, "u-alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrCannotLeaveDirect))

	groupID, err := env.api.CreateGroup("u-alice", "Study Group", []string{"bob"})
	require.NoError(t, err)
	err = env.api.Leave(groupID, "u-cara")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotAMember))
}

func TestSendRejectsEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")

	groupID, err := env.api.CreateGroup("u-alice", "Study Group", []string{"bob"})
	require.NoError(t, err)

	_, err = env.api.SendTo(groupID, "u-alice", "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrEmptyMessage))
}

func TestDeleteMessageRules(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")

	groupID, err := env.api.CreateGroup("u-alice", "Study Group", []string{"bob"})
	require.NoError(t, err)
	sent, err := env.api.SendTo(groupID, "u-alice", "oops")
	require.NoError(t, err)

	// Only the sender may delete.
	err = env.api.DeleteIn(groupID, sent.ID, "u-bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotSender))

	// Addressing the message through the wrong conversation does not find it.
	err = env.api.DeleteIn("some_other_chat", sent.ID, "u-alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMessageNotFound))

	require.NoError(t, env.api.DeleteIn(groupID, sent.ID, "u-alice"))
	messages, err := env.api.Messages(groupID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Deleted)
	assert.Equal(t, entity.DeletedBody, messages[0].Body)

	// Deleting again converges on the same state.
	require.NoError(t, env.api.DeleteIn(groupID, sent.ID, "u-alice"))
}

func TestConcurrentGroupCreateSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	env.addAccount(t, "u-alice", "alice")
	env.addAccount(t, "u-bob", "bob")

	const racers = 6
	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.api.CreateGroup("u-alice", "Contested", []string{"bob"})
			if err == nil {
				winners.Add(1)
				return
			}
			if !errors.Is(err, apperr.ErrGroupNameTaken) {
				t.Errorf("Unexpected create error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
