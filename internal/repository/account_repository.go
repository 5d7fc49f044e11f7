package repository

import (
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository is the account directory: identity lookups plus the
// symmetric friend sets and the pending request sets hanging off them.
type AccountRepository interface {
	Create(account *entity.Account) error

	GetByName(name string) (*entity.Account, error)
	GetByUUID(uuid string) (*entity.Account, error)
	GetForLogin(name string) (*entity.Account, error)

	Friends(uuid string) ([]*entity.Account, error)
	AreFriends(a, b string) (bool, error)
	AddFriendship(a, b string) error
	RemoveFriendship(a, b string) error

	CreateRequest(from, to string) error
	DeleteRequest(from, to string) (existed bool, err error)
	RequestExists(from, to string) (bool, error)
	PendingIncoming(uuid string) ([]*entity.FriendRequest, error)
	PendingOutgoing(uuid string) ([]*entity.FriendRequest, error)
}

type SQLiteAccountRepository struct {
	db *gorm.DB
}

func NewSQLiteAccountRepository(db *gorm.DB) AccountRepository {
	return &SQLiteAccountRepository{db}
}

func (repo *SQLiteAccountRepository) Create(account *entity.Account) error {
	res := repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(account)
	if res.Error != nil {
		return apperr.Transient("account create failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNameTaken
	}
	return nil
}

func (repo *SQLiteAccountRepository) GetByName(name string) (*entity.Account, error) {
	var account entity.Account
	if err := repo.db.Where("name = ?", name).First(&account).Error; err != nil {
		return nil, mapStoreError(err, apperr.ErrAccountNotFound)
	}
	return &account, nil
}

func (repo *SQLiteAccountRepository) GetByUUID(uuid string) (*entity.Account, error) {
	var account entity.Account
	if err := repo.db.Where("uuid = ?", uuid).First(&account).Error; err != nil {
		return nil, mapStoreError(err, apperr.ErrAccountNotFound)
	}
	return &account, nil
}

func (repo *SQLiteAccountRepository) GetForLogin(name string) (*entity.Account, error) {
	var account entity.Account
	err := repo.db.Preload("Secret").Where("name = ?", name).First(&account).Error
	if err != nil {
		return nil, mapStoreError(err, apperr.ErrAccountNotFound)
	}
	return &account, nil
}

func (repo *SQLiteAccountRepository) Friends(uuid string) ([]*entity.Account, error) {
	var friends []*entity.Account
	err := repo.db.
		Joins("JOIN friendships ON friendships.friend_uuid = accounts.uuid").
		Where("friendships.account_uuid = ?", uuid).
		Order("accounts.name ASC").
		Find(&friends).Error
	if err != nil {
		return nil, apperr.Transient("friend list failed", err)
	}
	return friends, nil
}

func (repo *SQLiteAccountRepository) AreFriends(a, b string) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.Friendship{}).
		Where("account_uuid = ? AND friend_uuid = ?", a, b).
		Count(&count).Error
	if err != nil {
		return false, apperr.Transient("friendship lookup failed", err)
	}
	return count > 0, nil
}

func (repo *SQLiteAccountRepository) AddFriendship(a, b string) error {
	now := time.Now()
	rows := []entity.Friendship{
		{AccountUUID: a, FriendUUID: b, CreatedAt: now},
		{AccountUUID: b, FriendUUID: a, CreatedAt: now},
	}
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
	if err != nil {
		return apperr.Transient("friendship create failed", err)
	}
	return nil
}

func (repo *SQLiteAccountRepository) RemoveFriendship(a, b string) error {
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_uuid = ? AND friend_uuid = ?", a, b).Delete(&entity.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Where("account_uuid = ? AND friend_uuid = ?", b, a).Delete(&entity.Friendship{}).Error
	})
	if err != nil {
		return apperr.Transient("friendship remove failed", err)
	}
	return nil
}

func (repo *SQLiteAccountRepository) CreateRequest(from, to string) error {
	request := entity.FriendRequest{FromUUID: from, ToUUID: to, CreatedAt: time.Now()}
	res := repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&request)
	if res.Error != nil {
		return apperr.Transient("friend request create failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrRequestPending
	}
	return nil
}

func (repo *SQLiteAccountRepository) DeleteRequest(from, to string) (bool, error) {
	res := repo.db.Where("from_uuid = ? AND to_uuid = ?", from, to).Delete(&entity.FriendRequest{})
	if res.Error != nil {
		return false, apperr.Transient("friend request delete failed", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (repo *SQLiteAccountRepository) RequestExists(from, to string) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.FriendRequest{}).
		Where("from_uuid = ? AND to_uuid = ?", from, to).
		Count(&count).Error
	if err != nil {
		return false, apperr.Transient("friend request lookup failed", err)
	}
	return count > 0, nil
}

func (repo *SQLiteAccountRepository) PendingIncoming(uuid string) ([]*entity.FriendRequest, error) {
	var requests []*entity.FriendRequest
	err := repo.db.Where("to_uuid = ?", uuid).Order("created_at ASC").Find(&requests).Error
	if err != nil {
		return nil, apperr.Transient("pending request list failed", err)
	}
	return requests, nil
}

func (repo *SQLiteAccountRepository) PendingOutgoing(uuid string) ([]*entity.FriendRequest, error) {
	var requests []*entity.FriendRequest
	err := repo.db.Where("from_uuid = ?", uuid).Order("created_at ASC").Find(&requests).Error
	if err != nil {
		return nil, apperr.Transient("pending request list failed", err)
	}
	return requests, nil
}
