package model

// Category classifies an event.
type Category string

const (
	CategoryHackathon     Category = "hackathon"
	CategoryCodingContest Category = "coding-contest"
	CategoryWorkshop      Category = "workshop"
	CategorySeminar       Category = "seminar"
	CategoryTechTalk      Category = "tech-talk"
	CategoryCultural      Category = "cultural"
	CategorySports        Category = "sports"
	CategoryAcademic      Category = "academic"
	CategoryNetworking    Category = "networking"
	CategoryOther         Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHackathon,
	CategoryCodingContest,
	CategoryWorkshop,
	CategorySeminar,
	CategoryTechTalk,
	CategoryCultural,
	CategorySports,
	CategoryAcademic,
	CategoryNetworking,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// EventType is the delivery mode of an event.
type EventType string

const (
	EventTypeOnline  EventType = "online"
	EventTypeOffline EventType = "offline"
	EventTypeHybrid  EventType = "hybrid"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeOnline, EventTypeOffline, EventTypeHybrid:
		return true
	}
	return false
}

// Status is the moderation state of an event.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no moderation transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NotificationType drives how a notification is presented.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)
