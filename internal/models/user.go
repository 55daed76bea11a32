package models

import "time"

// User matches the document in the "users" collection. The uid is issued at sign-up.
type User struct {
	UID          string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Role         Role      `bson:"role" json:"role"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// UserStats counts users per role.
type UserStats struct {
	Total      int `json:"total"`
	Clients    int `json:"clients"`
	PowerUsers int `json:"powerUsers"`
	Admins     int `json:"admins"`
}

// ComputeUserStats partitions users by role.
func ComputeUserStats(users []User) UserStats {
	stats := UserStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case RoleClient:
			stats.Clients++
		case RolePowerUser:
			stats.PowerUsers++
		case RoleAdmin:
			stats.Admins++
		}
	}
	return stats
}
