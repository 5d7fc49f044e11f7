package repository

import (
	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"gorm.io/gorm"
)

type GlobalRepository interface {
	Create(*entity.StoreState) error
	GetStoreState() (*entity.StoreState, error)
	GetLastSeq() (uint64, error)
}

type SQLiteGlobalRepository struct {
	db *gorm.DB
}

func NewSQLiteGlobalRepository(db *gorm.DB) GlobalRepository {
	return &SQLiteGlobalRepository{db}
}

func (g *SQLiteGlobalRepository) Create(s *entity.StoreState) error {
	if err := g.db.Create(s).Error; err != nil {
		return apperr.Transient("could not initialize store state", err)
	}
	return nil
}

func (g *SQLiteGlobalRepository) GetStoreState() (*entity.StoreState, error) {
	var state entity.StoreState
	if err := g.db.First(&state, 1).Error; err != nil {
		return nil, mapStoreError(err, apperr.NotFound("store state missing"))
	}
	return &state, nil
}

func (g *SQLiteGlobalRepository) GetLastSeq() (uint64, error) {
	state, err := g.GetStoreState()
	if err != nil {
		return 0, err
	}
	return state.LastSeq, nil
}
