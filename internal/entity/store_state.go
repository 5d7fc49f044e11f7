package entity

// Store state, represented by the couple (ID, LastSeq).
// ID exists only to have a unique record to lock; LastSeq is bumped inside
// every append transaction and is what gives messages their total order.
type StoreState struct {
	ID      uint64 `gorm:"primaryKey"`
	LastSeq uint64 `gorm:"not null;default:0"`
}
