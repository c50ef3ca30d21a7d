package entities

import "time"

// RecipientID is a telegram chat id.
type RecipientID int64

type Subscriber struct {
	ChatID    int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

type Message struct {
	Text     string
	Markdown bool
}

func PlainMessage(text string) Message {
	return Message{Text: text}
}
