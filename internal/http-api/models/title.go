package models

import "time"

type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Year        int       `json:"year" gorm:"index"`
	CategoryID  *int64    `json:"-" gorm:"index"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"-" gorm:"autoCreateTime"`

	// Rating is AVG(reviews.score), selected per query and never written.
	Rating *float64 `json:"rating" gorm:"->;-:migration"`

	// associations
	Category *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
