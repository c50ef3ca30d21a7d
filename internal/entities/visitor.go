package entities

import "time"

type Visitor struct {
	UserID     int64 `gorm:"primaryKey;autoIncrement:false"`
	UserName   string
	LastSeenAt time.Time `gorm:"index"`
}
