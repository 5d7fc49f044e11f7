package entity

import "time"

// A pending friend request from one account to another. Accepting it writes the
// symmetric Friendship pair and deletes the row; rejecting just deletes it.
type FriendRequest struct {
	FromUUID  string    `gorm:"primaryKey" json:"from"`
	ToUUID    string    `gorm:"primaryKey;index" json:"to"`
	CreatedAt time.Time `gorm:"not null" json:"created-at"`
}
