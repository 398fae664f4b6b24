// Package gorm provides GORM model definitions and repository
// implementations for the application.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string      `gorm:"type:varchar(255);not null"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	Dietary      StringSlice `gorm:"type:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relationships
	Recipes  []RecipeModel      `gorm:"foreignKey:AuthorID"`
	Messages []ChatMessageModel `gorm:"foreignKey:UserID"`
}

// ChatMessageModel represents one transcript entry
type ChatMessageModel struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID  `gorm:"type:char(36);not null;index"`
	Role      string     `gorm:"type:varchar(20);not null"`
	Content   string     `gorm:"type:text;not null"`
	DraftID   *uuid.UUID `gorm:"type:char(36);index"`
	CreatedAt time.Time  `gorm:"index"`

	// Relationships
	User  UserModel   `gorm:"foreignKey:UserID"`
	Draft *DraftModel `gorm:"foreignKey:DraftID"`
}

// DraftModel represents an AI-suggested recipe awaiting publication
type DraftModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;index"`
	Prompt      string    `gorm:"type:text;not null"`
	Dietary     string    `gorm:"type:text"`
	Payload     string    `gorm:"type:json;not null"`
	Display     string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);default:'draft';index"`
	CreatedAt   time.Time `gorm:"index"`
	PublishedAt *time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title       string    `gorm:"type:varchar(255);not null;index"`
	Description string    `gorm:"type:text"`
	AuthorID    uuid.UUID `gorm:"type:char(36);not null;index"`

	Ingredients  StringSlice `gorm:"type:json"`
	Instructions StringSlice `gorm:"type:json"`

	CookingTimeMinutes int `gorm:"column:cooking_time_minutes;default:0"`
	Servings           int `gorm:"default:1"`

	// AI provenance
	AIGenerated bool   `gorm:"default:false"`
	AIPrompt    string `gorm:"type:text"`
	AIModel     string `gorm:"type:varchar(100)"`

	Status      string     `gorm:"type:varchar(20);default:'draft';index"`
	PublishedAt *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time

	// Relationships
	Author UserModel `gorm:"foreignKey:AuthorID"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

func (DraftModel) TableName() string {
	return "drafts"
}

func (RecipeModel) TableName() string {
	return "recipes"
}
