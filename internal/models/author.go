package models

import "gorm.io/gorm"

// Author represents a book author; one author can have many books.
type Author struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Biography string `json:"biography,omitempty" gorm:"type:text" validate:"omitempty,max=5000"`
	gorm.Model
}
