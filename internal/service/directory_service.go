package service

import (
	"github.com/Milad704/socialmedia/internal/entity"
	"github.com/Milad704/socialmedia/internal/repository"
	"github.com/Milad704/socialmedia/pkg/apperr"
	"github.com/Milad704/socialmedia/pkg/nlog"
)

// DirectoryService is the account directory: name resolution plus the friend
// graph and its pending requests. The chat core consults Resolve before
// admitting a name into a conversation.
type DirectoryService interface {
	Resolve(name string) (*entity.Account, error)
	Get(uuid string) (*entity.Account, error)

	Friends(uuid string) ([]*entity.Account, error)
	AreFriends(a, b string) (bool, error)
	RemoveFriend(uuid, friendUUID string) error

	SendRequest(fromUUID, toName string) error
	AcceptRequest(toUUID, fromUUID string) error
	RejectRequest(toUUID, fromUUID string) error
	PendingIncoming(uuid string) ([]*entity.FriendRequest, error)
	PendingOutgoing(uuid string) ([]*entity.FriendRequest, error)
}

type localDirectoryService struct {
	accounts repository.AccountRepository
	logger   nlog.Logger
}

func NewDirectoryService(accounts repository.AccountRepository, logger nlog.Logger) DirectoryService {
	return &localDirectoryService{
		accounts: accounts,
		logger:   logger,
	}
}

func (d *localDirectoryService) Logf(format string, v ...any) {
	d.logger.Logf(format, v...)
}

func (d *localDirectoryService) Resolve(name string) (*entity.Account, error) {
	return d.accounts.GetByName(name)
}

func (d *localDirectoryService) Get(uuid string) (*entity.Account, error) {
	return d.accounts.GetByUUID(uuid)
}

func (d *localDirectoryService) Friends(uuid string) ([]*entity.Account, error) {
	return d.accounts.Friends(uuid)
}

func (d *localDirectoryService) AreFriends(a, b string) (bool, error) {
	return d.accounts.AreFriends(a, b)
}

func (d *localDirectoryService) RemoveFriend(uuid, friendUUID string) error {
	return d.accounts.RemoveFriendship(uuid, friendUUID)
}

// SendRequest files a pending request towards the named account. Requests to
// yourself, to an existing friend, or duplicating a pending one are refused.
func (d *localDirectoryService) SendRequest(fromUUID, toName string) error {
	to, err := d.accounts.GetByName(toName)
	if err != nil {
		return err
	}
	if to.UUID == fromUUID {
		return apperr.InvalidArg("cannot send a friend request to yourself")
	}

	friends, err := d.accounts.AreFriends(fromUUID, to.UUID)
	if err != nil {
		return err
	}
	if friends {
		return apperr.ErrAlreadyFriends
	}

	if err := d.accounts.CreateRequest(fromUUID, to.UUID); err != nil {
		return err
	}
	d.Logf("Friend request %s -> %s", fromUUID, to.UUID)
	return nil
}

// AcceptRequest consumes the pending request and writes the symmetric
// friendship pair.
func (d *localDirectoryService) AcceptRequest(toUUID, fromUUID string) error {
	existed, err := d.accounts.DeleteRequest(fromUUID, toUUID)
	if err != nil {
		return err
	}
	if !existed {
		return apperr.NotFound("no pending request from that account")
	}

	if err := d.accounts.AddFriendship(toUUID, fromUUID); err != nil {
		return err
	}
	d.Logf("Friend request %s -> %s accepted", fromUUID, toUUID)
	return nil
}

func (d *localDirectoryService) RejectRequest(toUUID, fromUUID string) error {
	existed, err := d.accounts.DeleteRequest(fromUUID, toUUID)
	if err != nil {
		return err
	}
	if !existed {
		return apperr.NotFound("no pending request from that account")
	}
	d.Logf("Friend request %s -> %s rejected", fromUUID, toUUID)
	return nil
}

func (d *localDirectoryService) PendingIncoming(uuid string) ([]*entity.FriendRequest, error) {
	return d.accounts.PendingIncoming(uuid)
}

func (d *localDirectoryService) PendingOutgoing(uuid string) ([]*entity.FriendRequest, error) {
	return d.accounts.PendingOutgoing(uuid)
}
