package models

import "time"

type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	AuthorID string    `json:"-" gorm:"type:uuid;not null;uniqueIndex:unique_review"`
	TitleID  int64     `json:"-" gorm:"not null;uniqueIndex:unique_review;index"`

	// associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
