package models

import "gorm.io/gorm"

// BookCategory groups books by genre or subject. Names are unique.
type BookCategory struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=1,max=50"`
	Description string `json:"description,omitempty" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	gorm.Model
}
