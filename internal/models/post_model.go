package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID               int64          `db:"id" json:"id"`
	UserID           int64          `db:"user_id" json:"user_id"`
	ImagePath        sql.NullString `db:"image_path" json:"-"`
	ImageDescription sql.NullString `db:"image_description" json:"-"`
	Caption          string         `db:"caption" json:"caption"`
	PostType         string         `db:"post_type" json:"post_type"` // post, story
	IsPosted         bool           `db:"is_posted" json:"is_posted"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	PostTypePost  = "post"
	PostTypeStory = "story"
)

// ToMap flattens nullable columns for JSON responses.
func (p *Post) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         p.ID,
		"user_id":    p.UserID,
		"caption":    p.Caption,
		"post_type":  p.PostType,
		"is_posted":  p.IsPosted,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
	if p.ImagePath.Valid {
		m["image_path"] = p.ImagePath.String
	} else {
		m["image_path"] = nil
	}
	if p.ImageDescription.Valid {
		m["image_description"] = p.ImageDescription.String
	} else {
		m["image_description"] = nil
	}
	return m
}
