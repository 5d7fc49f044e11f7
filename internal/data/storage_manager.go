package data

import (
	"sync/atomic"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/repository"
	"gorm.io/gorm"
)

// Storage manager gathers all the repositories needed for the app in a single
// container and keeps the latest store sequence cached, so read paths can
// report a snapshot version without touching the DB each time.
type StorageManager struct {
	db *gorm.DB // Under the hood we use the SQLite implementation

	cacheSeq atomic.Uint64

	// Repositories
	globalRepo       repository.GlobalRepository
	accountRepo      repository.AccountRepository
	conversationRepo repository.ConversationRepository
	messageRepo      repository.MessageRepository
	imageRepo        repository.ImageRepository
}

func NewStorageManager(db *gorm.DB) *StorageManager {
	s := &StorageManager{
		db:       db,
		cacheSeq: atomic.Uint64{},
	}

	s.globalRepo = repository.NewSQLiteGlobalRepository(db)
	s.accountRepo = repository.NewSQLiteAccountRepository(db)
	s.conversationRepo = repository.NewSQLiteConversationRepository(db)
	s.messageRepo = repository.NewSQLiteMessageRepository(db)
	s.imageRepo = repository.NewSQLiteImageRepository(db)

	state, err := s.globalRepo.GetStoreState()
	if err != nil {
		newState := entity.StoreState{ID: 1, LastSeq: 0}
		s.globalRepo.Create(&newState)
		s.cacheSeq.Store(0)
	} else {
		s.cacheSeq.Store(state.LastSeq)
	}

	return s
}

func (s *StorageManager) UpdateSeqCache(newSeq uint64) {
	// Append sequences only move forward; a stale update from a racing writer
	// must not roll the cache back.
	for {
		current := s.cacheSeq.Load()
		if newSeq <= current || s.cacheSeq.CompareAndSwap(current, newSeq) {
			return
		}
	}
}

func (s *StorageManager) GetCachedSeq() uint64 {
	return s.cacheSeq.Load()
}

func (s *StorageManager) GetGlobalRepository() repository.GlobalRepository {
	return s.globalRepo
}

func (s *StorageManager) GetAccountRepository() repository.AccountRepository {
	return s.accountRepo
}

func (s *StorageManager) GetConversationRepository() repository.ConversationRepository {
	return s.conversationRepo
}

func (s *StorageManager) GetMessageRepository() repository.MessageRepository {
	return s.messageRepo
}

func (s *StorageManager) GetImageRepository() repository.ImageRepository {
	return s.imageRepo
}
