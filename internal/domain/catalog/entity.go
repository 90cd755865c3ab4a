package catalog

import "time"

// Service is an offering listed on the public Services page.
type Service struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	ImageFilename *string   `gorm:"size:255" json:"image_filename,omitempty"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	Featured      bool      `gorm:"not null" json:"featured"`
	SortOrder     int       `gorm:"not null" json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) Image() string {
	if s.ImageFilename == nil {
		return ""
	}
	return *s.ImageFilename
}
