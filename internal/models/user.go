package models

import "time"

// User represents a registered member of the network.
type User struct {
	UserID             string    `json:"userId" bson:"userId" gorm:"primaryKey;type:varchar(36)"`
	UserName           string    `json:"userName" bson:"userName" gorm:"type:varchar(100);not null"`
	Email              string    `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password           string    `json:"-" bson:"password" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	AvatarURL          string    `json:"avatarURL" bson:"avatarURL"`
	AvatarName         string    `json:"avatarName" bson:"avatarName"`
	CoverImage         string    `json:"coverImage" bson:"coverImage"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
	Followers          []string  `json:"followers" bson:"followers" gorm:"serializer:json;type:text"`
	Following          []string  `json:"following" bson:"following" gorm:"serializer:json;type:text"`
	RelationshipStatus string    `json:"relationshipStatus" bson:"relationshipStatus"`
}

// IsFollowing reports whether u follows userID.
func (u *User) IsFollowing(userID string) bool {
	return contains(u.Following, userID)
}

// PublicProfile is the projection of a user returned by the people listing.
type PublicProfile struct {
	UserID    string   `json:"userId"`
	UserName  string   `json:"userName"`
	Email     string   `json:"email"`
	AvatarURL string   `json:"avatarURL"`
	Followers []string `json:"followers"`
}

// Profile is the projection of a user returned by the profile endpoints.
type Profile struct {
	UserID             string   `json:"userId"`
	UserName           string   `json:"userName"`
	Email              string   `json:"email"`
	AvatarURL          string   `json:"avatarURL"`
	AvatarName         string   `json:"avatarName"`
	CoverImage         string   `json:"coverImage"`
	Followers          []string `json:"followers"`
	Following          []string `json:"following"`
	RelationshipStatus string   `json:"relationshipStatus"`
}

func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		UserID:    u.UserID,
		UserName:  u.UserName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Followers: nonNil(u.Followers),
	}
}

func (u *User) Profile() Profile {
	return Profile{
		UserID:             u.UserID,
		UserName:           u.UserName,
		Email:              u.Email,
		AvatarURL:          u.AvatarURL,
		AvatarName:         u.AvatarName,
		CoverImage:         u.CoverImage,
		Followers:          nonNil(u.Followers),
		Following:          nonNil(u.Following),
		RelationshipStatus: u.RelationshipStatus,
	}
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left untouched.
type ProfileUpdate struct {
	UserName           *string
	Email              *string
	RelationshipStatus *string
	AvatarURL          *string
	AvatarName         *string
	CoverImage         *string
}

// Empty reports whether the update would change nothing.
func (p ProfileUpdate) Empty() bool {
	return p.UserName == nil && p.Email == nil && p.RelationshipStatus == nil &&
		p.AvatarURL == nil && p.AvatarName == nil && p.CoverImage == nil
}

// Apply copies the provided fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.UserName != nil {
		u.UserName = *p.UserName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.RelationshipStatus != nil {
		u.RelationshipStatus = *p.RelationshipStatus
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.AvatarName != nil {
		u.AvatarName = *p.AvatarName
	}
	if p.CoverImage != nil {
		u.CoverImage = *p.CoverImage
	}
}
