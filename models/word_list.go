package models

import (
	"time"

	"gorm.io/gorm"
)

type WordList struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	UserID      uint           `json:"user_id" gorm:"not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User  User   `json:"user,omitempty"`
	Words []Word `json:"words,omitempty" gorm:"foreignKey:WordListID"`
}

type Word struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	WordListID      uint           `json:"word_list_id" gorm:"not null"`
	English         string         `json:"english" gorm:"not null"`
	Hebrew          string         `json:"hebrew" gorm:"not null"`
	ExampleSentence string         `json:"example_sentence"`
	Difficulty      string         `json:"difficulty" gorm:"not null;default:'easy'"`
	Order           int            `json:"order" gorm:"not null"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	WordList WordList `json:"word_list,omitempty"`
}
