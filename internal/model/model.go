// Package model defines the core domain types for the college events platform.
package model

import "time"

// Event is a listing submitted by an organizer and gated by moderation.
type Event struct {
	ID                   string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title                string     `json:"title" gorm:"size:100;not null"`
	Description          string     `json:"description" gorm:"type:text;not null"`
	Category             Category   `json:"category" gorm:"size:32;not null;index"`
	EventType            EventType  `json:"eventType" gorm:"size:16;not null;default:offline"`
	Image                string     `json:"image,omitempty"`
	Date                 time.Time  `json:"date" gorm:"not null;index"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	Venue                string     `json:"venue,omitempty"`
	City                 string     `json:"city" gorm:"index"`
	State                string     `json:"state,omitempty"`
	College              string     `json:"college"`
	OrganizerID          string     `json:"organizerId" gorm:"type:varchar(36);not null;index"`
	Organizer            *Organizer `json:"organizer,omitempty" gorm:"foreignKey:OrganizerID"`
	RegistrationLink     string     `json:"registrationLink,omitempty"`
	RegistrationFee      float64    `json:"registrationFee"`
	MaxParticipants      int        `json:"maxParticipants,omitempty"`
	Tags                 []string   `json:"tags" gorm:"type:text;serializer:json"`
	Requirements         []string   `json:"requirements" gorm:"type:text;serializer:json"`
	Views                int64      `json:"views" gorm:"not null;default:0"`
	FavoritesCount       int64      `json:"favoritesCount" gorm:"not null;default:0"`
	Status               Status     `json:"status" gorm:"size:16;not null;index"`
	Featured             bool       `json:"featured" gorm:"not null;default:false"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// IsOwnedBy reports whether userID submitted the event.
func (e *Event) IsOwnedBy(userID string) bool {
	return userID != "" && e.OrganizerID == userID
}

// VisibleTo applies the moderation gate: only approved events are public,
// everything else is limited to the organizer and admins.
func (e *Event) VisibleTo(id Identity) bool {
	return e.Status == StatusApproved || id.IsAdmin() || e.IsOwnedBy(id.UserID)
}

// Organizer is the public profile of the user that owns an event.
type Organizer struct {
	ID      string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	College string `json:"college,omitempty"`
}

// TableName maps the organizer projection onto the users table.
func (Organizer) TableName() string { return "users" }

// User is an account holder. Email is unique and stored lower-cased.
type User struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"size:16;not null;default:user"`
	College      string    `json:"college,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity returns the authorization view of the user.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

// Favorite links a user to an event. The (user, event) pair is unique.
type Favorite struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_pair"`
	EventID   string    `json:"eventId" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_pair;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is a message addressed to a single user.
type Notification struct {
	ID        string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string           `json:"userId" gorm:"type:varchar(36);not null;index"`
	Type      NotificationType `json:"type" gorm:"size:16;not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	Link      string           `json:"link,omitempty"`
	IsRead    bool             `json:"isRead" gorm:"not null;default:false;index"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
}

// Identity is the resolved caller of an operation. The zero value is the
// anonymous caller.
type Identity struct {
	UserID string
	Role   Role
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity { return Identity{} }

// IsAnonymous reports whether no user was resolved.
func (i Identity) IsAnonymous() bool { return i.UserID == "" }

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool { return i.UserID != "" && i.Role == RoleAdmin }

// EventDetail is a single event as returned to a requester.
type EventDetail struct {
	Event
	IsFavorited bool `json:"isFavorited"`
}

// EventPage is one page of a filtered event listing.
type EventPage struct {
	Events     []Event `json:"events"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

// CategoryCount is the number of approved events in a category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
