package storage

import "time"

// Message represents one persisted chat message
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Room      string    `json:"room" gorm:"type:varchar(130);index"`
	Sender    string    `json:"sender" gorm:"type:varchar(64)"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
