package model

import "time"

type CrewMember struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(256);not null" json:"name"`
	Role        string    `gorm:"type:varchar(128);not null" json:"role"`
	HeadshotURL *string   `gorm:"type:text" json:"headshot_url"`
	Quote       *string   `gorm:"type:text" json:"quote"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CrewMember) TableName() string { return "bridal_crew" }
