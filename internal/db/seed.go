package db

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-users/internal/models"
)

// Seed creates the distinguished profiles and the initial accounts.
// Idempotent: existing rows are left untouched.
func Seed(db *gorm.DB) error {
	profiles := []models.Profile{
		{Name: models.AdminProfileName, Description: "Administrador"},
		{Name: models.DefaultProfileName, Description: "Comum"},
	}
	for i := range profiles {
		if err := db.Where("nome = ?", profiles[i].Name).FirstOrCreate(&profiles[i]).Error; err != nil {
			return err
		}
	}

	users := []struct {
		user     models.User
		password string
		profile  *models.Profile
	}{
		{models.User{Name: "Admin Usuário", Email: "admin@exemplo.com", Active: true}, "senhaAdmin", &profiles[0]},
		{models.User{Name: "Usuário Comum", Email: "usuario@exemplo.com", Active: true}, "senhaComum", &profiles[1]},
	}
	for _, u := range users {
		var existing models.User
		err := db.Where("email = ?", u.user.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.user.Password = string(hash)
		if err := db.Create(&u.user).Error; err != nil {
			return err
		}
		link := models.UserProfile{UserID: u.user.ID, ProfileID: u.profile.ID}
		if err := db.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
