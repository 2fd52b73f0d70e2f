package models

import "time"

// NewestFirst is the ordering shared by reviews and comments.
const NewestFirst = "pub_date DESC, id DESC"

type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64     `json:"-" gorm:"not null;uniqueIndex:reviews_title_author_key"`
	AuthorID string    `json:"-" gorm:"type:uuid;not null;uniqueIndex:reviews_title_author_key"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`

	// associations
	Author User  `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) OwnerID() string {
	return r.AuthorID
}
