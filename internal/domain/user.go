package domain

import "time"

// User is a registered marketplace account. Password holds the bcrypt hash.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"-"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Role      string    `gorm:"column:role;type:varchar(10);not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
