package model

import "time"

// CreateEventRequest is the canonical payload for submitting an event.
type CreateEventRequest struct {
	Title                string     `json:"title" validate:"required,max=100"`
	Description          string     `json:"description" validate:"required,max=5000"`
	Category             Category   `json:"category" validate:"required,category"`
	EventType            EventType  `json:"eventType" validate:"omitempty,eventtype"`
	Image                string     `json:"image" validate:"omitempty,url"`
	Date                 time.Time  `json:"date" validate:"required"`
	EndDate              *time.Time `json:"endDate"`
	RegistrationDeadline *time.Time `json:"registrationDeadline"`
	Venue                string     `json:"venue" validate:"max=200"`
	City                 string     `json:"city" validate:"required_without=College,max=100"`
	State                string     `json:"state" validate:"max=100"`
	College              string     `json:"college" validate:"required_without=City,max=200"`
	RegistrationLink     string     `json:"registrationLink" validate:"omitempty,url"`
	RegistrationFee      float64    `json:"registrationFee" validate:"gte=0"`
	MaxParticipants      int        `json:"maxParticipants" validate:"gte=0"`
	Tags                 []string   `json:"tags" validate:"max=20,dive,max=50"`
	Requirements         []string   `json:"requirements" validate:"max=20,dive,max=200"`
}

// UpdateEventRequest carries a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Title                *string    `json:"title" validate:"omitempty,min=1,max=100"`
	Description          *string    `json:"description" validate:"omitempty,min=1,max=5000"`
	Category             *Category  `json:"category" validate:"omitempty,category"`
	EventType            *EventType `json:"eventType" validate:"omitempty,eventtype"`
	Image                *string    `json:"image" validate:"omitempty,url"`
	Date                 *time.Time `json:"date"`
	EndDate              *time.Time `json:"endDate"`
	RegistrationDeadline *time.Time `json:"registrationDeadline"`
	Venue                *string    `json:"venue" validate:"omitempty,max=200"`
	City                 *string    `json:"city" validate:"omitempty,max=100"`
	State                *string    `json:"state" validate:"omitempty,max=100"`
	College              *string    `json:"college" validate:"omitempty,max=200"`
	RegistrationLink     *string    `json:"registrationLink" validate:"omitempty,url"`
	RegistrationFee      *float64   `json:"registrationFee" validate:"omitempty,gte=0"`
	MaxParticipants      *int       `json:"maxParticipants" validate:"omitempty,gte=0"`
	Featured             *bool      `json:"featured"`
	Tags                 []string   `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Requirements         []string   `json:"requirements" validate:"omitempty,max=20,dive,max=200"`
}

// EventFilter holds the optional, conjunctive listing predicates.
type EventFilter struct {
	Status       Status
	Category     Category
	EventType    EventType
	City         string
	College      string
	Search       string
	UpcomingOnly bool
	FeaturedOnly bool
	OrganizerID  string
}

// Sort fields accepted by the listing.
const (
	SortByDate           = "date"
	SortByCreatedAt      = "createdAt"
	SortByViews          = "views"
	SortByFavoritesCount = "favoritesCount"
)

// Sort orders accepted by the listing.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams is a filtered, sorted, paginated listing request.
type ListParams struct {
	Filter   EventFilter
	SortBy   string
	Order    string
	Page     int
	PageSize int
}

// StatusChangeRequest is the moderation payload.
type StatusChangeRequest struct {
	Status Status `json:"status" validate:"required,oneof=approved rejected cancelled"`
	Reason string `json:"reason" validate:"max=500"`
}

// RegisterRequest creates a user account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	College  string `json:"college" validate:"max=200"`
	Phone    string `json:"phone" validate:"max=20"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes the caller's profile fields.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	College *string `json:"college" validate:"omitempty,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
