package repository

import (
	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"gorm.io/gorm"
)

// MessageRepository is the store adapter for the shared per-conversation
// message collection. Append stamps every record with the next value of the
// store-wide sequence inside one transaction, so replaying a conversation by
// Seq is a stable total order regardless of which client raced which.
type MessageRepository interface {
	Append(message *entity.Message) (uint64, error)

	List(conversationID string) ([]*entity.Message, error)
	GetByID(messageID string) (*entity.Message, error)

	// SoftDelete blanks the body and flags the record. It refuses requesters
	// other than the original sender. A repeated call on an already-deleted
	// message is a no-op success: the terminal state is identical either way.
	SoftDelete(messageID, requesterUUID string) error
}

type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Append(message *entity.Message) (uint64, error) {

	var seq uint64 = 0
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		// SQLite serializes writers, the transaction alone is enough to make
		// the read-bump-stamp sequence safe.
		var state entity.StoreState
		if err := tx.First(&state, 1).Error; err != nil {
			return err
		}
		state.LastSeq++
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		message.Seq = state.LastSeq
		seq = state.LastSeq

		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, apperr.Transient("message append failed", err)
	}

	return seq, nil
}

func (repo *SQLiteMessageRepository) List(conversationID string) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.Where("conversation_id = ?", conversationID).Order("seq ASC").Find(&messages).Error
	if err != nil {
		return nil, apperr.Transient("message list failed", err)
	}
	return messages, nil
}

func (repo *SQLiteMessageRepository) GetByID(messageID string) (*entity.Message, error) {
	var message entity.Message
	if err := repo.db.Where("id = ?", messageID).First(&message).Error; err != nil {
		return nil, mapStoreError(err, apperr.ErrMessageNotFound)
	}
	return &message, nil
}

func (repo *SQLiteMessageRepository) SoftDelete(messageID, requesterUUID string) error {
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		var message entity.Message
		if err := tx.Where("id = ?", messageID).First(&message).Error; err != nil {
			return mapStoreError(err, apperr.ErrMessageNotFound)
		}
		if message.Sender != requesterUUID {
			return apperr.ErrNotSender
		}
		if message.Deleted {
			return nil
		}

		message.Deleted = true
		message.Body = entity.DeletedBody
		if err := tx.Save(&message).Error; err != nil {
			return apperr.Transient("message update failed", err)
		}
		return nil
	})
	return err
}
