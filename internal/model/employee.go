package model

import "time"

const (
	RoleMechanic = "mechanic"
	RoleWasher   = "washer"
	RoleCashier  = "cashier"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Employee is a staff member. Role drives both the navigation the client
// shows and which endpoints the API lets through.
type Employee struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Role      string `gorm:"type:varchar(20);not null"`
	PinHash   string `gorm:"not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRole reports whether r is one of the five known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleMechanic, RoleWasher, RoleCashier, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanSeePrices is false for shop-floor roles; their order views are redacted.
func CanSeePrices(role string) bool {
	return role != RoleMechanic && role != RoleWasher
}

// Modules lists the UI modules a role may open; the first entry is where
// the client lands after login.
func Modules(role string) []string {
	switch role {
	case RoleMechanic:
		return []string{"workshop"}
	case RoleWasher:
		return []string{"carwash"}
	case RoleCashier:
		return []string{"finance", "cash", "workshop", "carwash", "fiscal"}
	case RoleManager, RoleAdmin:
		return []string{"dashboard", "workshop", "carwash", "cash", "finance", "fiscal", "inventory", "registry", "assistant", "admin"}
	}
	return nil
}
