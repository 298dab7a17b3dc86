package model

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	UserID       string `gorm:"primaryKey;type:varchar(255)" json:"user_id"`
	FullName     string `gorm:"not null;type:varchar(100)" json:"full_name"`
	Email        string `gorm:"unique;not null;type:varchar(100)" json:"email"`
	PasswordHash string `gorm:"not null;type:varchar(255)" json:"-"`
	Role         Role   `gorm:"not null;type:varchar(10)" json:"role"`
	BaseModel
}
