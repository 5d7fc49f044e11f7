package repository

import (
	"time"

	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository interface {
	// CreateIfAbsent is the conditional-create primitive: it binds the id to
	// this conversation only if the id is free, and reports whether this call
	// won the binding. Two racing creators cannot both see created=true.
	CreateIfAbsent(conversation *entity.Conversation) (created bool, err error)

	GetByID(id string) (*entity.Conversation, error)

	Members(id string) ([]*entity.ConversationMember, error)
	IsMember(id, accountUUID string) (bool, error)
	AddMember(id, accountUUID string) error
	RemoveMember(id, accountUUID string) (removed bool, err error)

	ForMember(accountUUID string) ([]*entity.Conversation, error)
}

type SQLiteConversationRepository struct {
	db *gorm.DB
}

func NewSQLiteConversationRepository(db *gorm.DB) ConversationRepository {
	return &SQLiteConversationRepository{db}
}

func (repo *SQLiteConversationRepository) CreateIfAbsent(conversation *entity.Conversation) (bool, error) {

	members := conversation.Members
	conversation.Members = nil

	created := false
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(conversation)
		if res.Error != nil {
			return apperr.Transient("conversation create failed", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race (or the id was already bound). The existing
			// conversation is left untouched.
			return nil
		}
		created = true

		for i := range members {
			members[i].ConversationID = conversation.ID
			if members[i].JoinedAt.IsZero() {
				members[i].JoinedAt = time.Now()
			}
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return apperr.Transient("conversation member create failed", err)
			}
		}
		return nil
	})

	conversation.Members = members
	return created, err
}

func (repo *SQLiteConversationRepository) GetByID(id string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := repo.db.Preload("Members").Where("id = ?", id).First(&conversation).Error
	if err != nil {
		return nil, mapStoreError(err, apperr.ErrConversationNotFound)
	}
	return &conversation, nil
}

func (repo *SQLiteConversationRepository) Members(id string) ([]*entity.ConversationMember, error) {
	var members []*entity.ConversationMember
	err := repo.db.Where("conversation_id = ?", id).Order("joined_at ASC, account_uuid ASC").Find(&members).Error
	if err != nil {
		return nil, apperr.Transient("member list failed", err)
	}
	return members, nil
}

func (repo *SQLiteConversationRepository) IsMember(id, accountUUID string) (bool, error) {
	var count int64
	err := repo.db.Model(&entity.ConversationMember{}).
		Where("conversation_id = ? AND account_uuid = ?", id, accountUUID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Transient("member lookup failed", err)
	}
	return count > 0, nil
}

func (repo *SQLiteConversationRepository) AddMember(id, accountUUID string) error {
	member := entity.ConversationMember{
		ConversationID: id,
		AccountUUID:    accountUUID,
		JoinedAt:       time.Now(),
	}
	err := repo.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
	if err != nil {
		return apperr.Transient("member add failed", err)
	}
	return nil
}

func (repo *SQLiteConversationRepository) RemoveMember(id, accountUUID string) (bool, error) {
	res := repo.db.Where("conversation_id = ? AND account_uuid = ?", id, accountUUID).
		Delete(&entity.ConversationMember{})
	if res.Error != nil {
		return false, apperr.Transient("member remove failed", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (repo *SQLiteConversationRepository) ForMember(accountUUID string) ([]*entity.Conversation, error) {
	var conversations []*entity.Conversation
	err := repo.db.Preload("Members").
		Joins("JOIN conversation_members ON conversation_members.conversation_id = conversations.id").
		Where("conversation_members.account_uuid = ?", accountUUID).
		Order("conversations.created_at ASC").
		Find(&conversations).Error
	if err != nil {
		return nil, apperr.Transient("conversation list failed", err)
	}
	return conversations, nil
}
