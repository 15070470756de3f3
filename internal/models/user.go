package models

import "time"

// User represents an authenticated user in the system.
// Column and table names follow the legacy schema (usuarios).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nome;size:255;not null" json:"nome"`
	Email     string    `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"column:senha;size:255;not null" json:"-"` // Hashed, never exposed in JSON
	Active    bool      `gorm:"column:ativo;default:true" json:"ativo"`
	CreatedAt time.Time `gorm:"column:data_criacao" json:"data_criacao"`
	UpdatedAt time.Time `gorm:"column:data_update" json:"data_update"`
}

func (User) TableName() string { return "usuarios" }

// IsAdmin reports whether any of the given profiles carries the admin name.
// Admin status is always derived from assigned profiles, never stored on the user.
func IsAdmin(profiles []Profile) bool {
	for _, p := range profiles {
		if p.Name == AdminProfileName {
			return true
		}
	}
	return false
}
