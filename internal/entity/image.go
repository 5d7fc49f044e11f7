package entity

import "time"

// Image is a camera capture stored under its owner, data-URL payload included.
type Image struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	OwnerUUID string    `gorm:"not null;index" json:"owner"`
	Data      string    `gorm:"not null" json:"data"`
	CreatedAt time.Time `gorm:"not null;index" json:"created-at"`
}
