package models

import (
	"time"
)

type User struct {
	UserID                 string    `json:"id" db:"id"`
	Username               string    `json:"username" db:"username"`
	DisplayName            string    `json:"displayName" db:"display_name"`
	Email                  string    `json:"email" db:"email"`
	ProfileImage           string    `json:"profileImage" db:"profile_image"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
}

// Public returns the projection of the user that is safe to embed in posts.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.UserID,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
}

// PublicUser is the author projection attached to posts.
type PublicUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

const (
	PlaceholderUsername     = "unknown"
	PlaceholderDisplayName  = "Unknown"
	PlaceholderProfileImage = "/placeholder.svg"
)

// PlaceholderAuthor is substituted when an author id no longer resolves.
func PlaceholderAuthor(authorID string) PublicUser {
	return PublicUser{
		ID:           authorID,
		Username:     PlaceholderUsername,
		DisplayName:  PlaceholderDisplayName,
		Email:        "",
		ProfileImage: PlaceholderProfileImage,
	}
}

// Post is one record of the threaded post arena. Posts never hold references
// to other posts, only ids.
type Post struct {
	PostID       string     `json:"id"`
	Content      string     `json:"content"`
	AuthorID     string     `json:"authorId"`
	Author       PublicUser `json:"author"`
	ParentID     *string    `json:"parentId"`
	CreatedAt    time.Time  `json:"createdAt"`
	Likes        int64      `json:"likes"`
	CommentCount int64      `json:"comments"`
	IsLiked      bool       `json:"isLiked"`
}

func (p *Post) IsReply() bool {
	return p.ParentID != nil
}

type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsBot     bool      `json:"isBot"`
	Timestamp time.Time `json:"timestamp"`
}
