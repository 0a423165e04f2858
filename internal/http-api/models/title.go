package models

type Title struct {
	ID          int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string   `json:"name" gorm:"size:256;not null"`
	Year        int      `json:"year" gorm:"not null;index"`
	Rating      *float64 `json:"rating"` // mean review score, nil without reviews
	Description *string  `json:"description,omitempty" gorm:"type:text"`
	CategoryID  *int64   `json:"-" gorm:"index"`

	// associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
