package models

import (
	"time"

	"gorm.io/gorm"
)

// Book represents a book in the catalog. Prices are stored in integer
// cents to keep currency arithmetic exact.
type Book struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title         string `json:"title" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	ISBN          string `json:"isbn" gorm:"uniqueIndex;type:varchar(13)" validate:"required,min=10,max=13"`
	Description   string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	PriceCents    int64  `json:"price_cents" validate:"gte=0"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`

	FrontCoverURL      string `json:"front_cover_url,omitempty" gorm:"type:varchar(500)"`
	FrontCoverPublicID string `json:"front_cover_public_id,omitempty" gorm:"type:varchar(255)"`
	BackCoverURL       string `json:"back_cover_url,omitempty" gorm:"type:varchar(500)"`
	BackCoverPublicID  string `json:"back_cover_public_id,omitempty" gorm:"type:varchar(255)"`

	PublicationDate *time.Time `json:"publication_date,omitempty"`
	Edition         string     `json:"edition,omitempty" gorm:"type:varchar(50)"`
	Language        string     `json:"language,omitempty" gorm:"type:varchar(50)"`

	AuthorID   string `json:"author_id,omitempty" gorm:"type:varchar(36);index"`
	CategoryID string `json:"category_id" gorm:"type:varchar(36);index" validate:"required,uuid"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
