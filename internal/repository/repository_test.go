package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Uint64

// openTestDB gives each test its own named in-memory database. cache=shared
// keeps the database alive across the connections gorm pools.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Could not open the test database: %v", err)
	}

	// One connection serializes writers the way a file-backed database would,
	// instead of surfacing SQLITE_BUSY from the shared cache.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Could not reach the underlying connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&entity.StoreState{},
		&entity.Account{},
		&entity.AccountSecret{},
		&entity.Friendship{},
		&entity.FriendRequest{},
		&entity.Conversation{},
		&entity.ConversationMember{},
		&entity.Message{},
		&entity.Image{},
	); err != nil {
		t.Fatalf("Could not migrate the test database: %v", err)
	}
	if err := db.Create(&entity.StoreState{ID: 1, LastSeq: 0}).Error; err != nil {
		t.Fatalf("Could not seed the store state: %v", err)
	}
	return db
}

func testConversation(id string, kind entity.ConversationKind, memberUUIDs ...string) *entity.Conversation {
	now := time.Now()
	members := make([]entity.ConversationMember, 0, len(memberUUIDs))
	for _, uuid := range memberUUIDs {
		members = append(members, entity.ConversationMember{AccountUUID: uuid, JoinedAt: now})
	}
	return &entity.Conversation{
		ID:        id,
		Kind:      kind,
		Name:      id,
		CreatedAt: now,
		Members:   members,
	}
}
