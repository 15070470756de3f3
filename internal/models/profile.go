package models

// Distinguished profile names. The admin name is the authorization
// discriminator; the default name is forced on every self-service signup.
const (
	AdminProfileName   = "admin"
	DefaultProfileName = "comum"
)

// Profile is a named role assignable to users (table perfis).
type Profile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"column:nome;size:255;not null" json:"nome"`
	Description string `gorm:"column:descricao" json:"descricao,omitempty"`
}

func (Profile) TableName() string { return "perfis" }

// UserProfile links one user to one profile (table usuarios_perfis).
// Rows are removed by the database cascade when either side is deleted.
type UserProfile struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"column:usuario_id;not null;index" json:"usuario_id"`
	ProfileID uint     `gorm:"column:perfil_id;not null;index" json:"perfil_id"`
	User      *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Profile   *Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserProfile) TableName() string { return "usuarios_perfis" }
