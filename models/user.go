package models

import "time"

type Role string
type AccountStatus string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"

	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

type User struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null" json:"name"`
	Email     string        `gorm:"uniqueIndex;not null" json:"email"`
	Role      Role          `gorm:"type:VARCHAR(20);default:'CUSTOMER'" json:"role"`
	Status    AccountStatus `gorm:"type:VARCHAR(20);default:'ACTIVE'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
