package models

import "time"

type User struct {
	ID                int64     `db:"id" json:"id"`
	Username          string    `db:"username" json:"username"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	InstagramUsername string    `db:"instagram_username" json:"-"`
	InstagramPassword string    `db:"instagram_password" json:"-"` // AES-GCM encrypted, never plaintext
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) HasInstagramCredentials() bool {
	return u.InstagramUsername != "" && u.InstagramPassword != ""
}
