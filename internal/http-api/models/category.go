package models

type Category struct {
	ID   int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256;unique;not null"`
	Slug string `json:"slug" gorm:"size:50;unique;not null"`
}

func (Category) TableName() string {
	return "categories"
}
