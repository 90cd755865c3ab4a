package staff

import "time"

// Employee is a team member shown on the About page. Tasks are assigned to
// employees and employee accounts link to one.
type Employee struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Position      string    `gorm:"size:255;not null" json:"position"`
	PhotoFilename *string   `gorm:"size:255" json:"photo_filename,omitempty"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	SortOrder     int       `gorm:"not null" json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

// Photo returns the stored photo key or "".
func (e *Employee) Photo() string {
	if e.PhotoFilename == nil {
		return ""
	}
	return *e.PhotoFilename
}
