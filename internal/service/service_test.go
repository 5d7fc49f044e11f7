package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Uint64

func openTestAccounts(t *testing.T) repository.AccountRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Could not open the test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Could not reach the underlying connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&entity.Account{},
		&entity.AccountSecret{},
		&entity.Friendship{},
		&entity.FriendRequest{},
	); err != nil {
		t.Fatalf("Could not migrate the test database: %v", err)
	}
	return repository.NewSQLiteAccountRepository(db)
}
