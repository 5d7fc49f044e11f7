package entity

import (
	"time"

	"gorm.io/gorm"
)

type Account struct {
	UUID      string         `gorm:"primaryKey" json:"uuid"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created-at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Secret  AccountSecret `gorm:"foreignKey:AccountUUID;references:UUID" json:"-"`
	Friends []Friendship  `gorm:"foreignKey:AccountUUID;references:UUID" json:"-"`
}

type AccountSecret struct {
	AccountUUID string `gorm:"primaryKey"`
	Hash        string `gorm:"not null"`
}

// Friendship rows come in symmetric pairs: (a,b) and (b,a) are written together
// so either side's friend list is a single indexed read.
type Friendship struct {
	AccountUUID string    `gorm:"primaryKey" json:"account"`
	FriendUUID  string    `gorm:"primaryKey" json:"friend"`
	CreatedAt   time.Time `gorm:"not null" json:"created-at"`
}
