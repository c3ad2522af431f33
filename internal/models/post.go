package models

import "time"

// Post is a status update authored by a user.
// LikeCount is stored as supplied and is not derived from LikedBy.
type Post struct {
	PostID    string    `json:"postId" bson:"postId" gorm:"primaryKey;type:varchar(255)"`
	UserID    string    `json:"userId" bson:"userId" gorm:"index;type:varchar(36);not null"`
	Name      string    `json:"name" bson:"name" gorm:"not null"`
	Content   string    `json:"content" bson:"content" gorm:"not null"`
	ImageURL  string    `json:"imageURL" bson:"imageURL"`
	LikeCount int       `json:"likeCount" bson:"likeCount"`
	LikedBy   []string  `json:"likedBy" bson:"likedBy" gorm:"serializer:json;type:text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	Avatar    string    `json:"avatar" bson:"avatar"`
	PostName  string    `json:"postName" bson:"postName"`
}

// LikedByUser reports whether userID is in the like set.
func (p *Post) LikedByUser(userID string) bool {
	return contains(p.LikedBy, userID)
}

// Clone returns a deep copy so snapshots survive later mutation.
func (p Post) Clone() Post {
	p.LikedBy = append([]string{}, p.LikedBy...)
	return p
}
