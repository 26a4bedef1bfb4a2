package models

import "time"

// ChatMessage is one community-chat entry. Append-only; rows are never
// updated after insert.
type ChatMessage struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	AuthorID   uint      `gorm:"index;not null" json:"authorId"`
	AuthorName string    `gorm:"size:255;not null" json:"authorName"`
	Content    string    `gorm:"size:2048;not null" json:"content"`
}
