package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePrincipalCreated   = "principal.created"
	EventTypeSessionSignedIn    = "session.signed_in"
	EventTypeSessionSignedOut   = "session.signed_out"
	EventTypeLeaveStatusChanged = "leave.status_changed"
)

type PrincipalCreatedEvent struct {
	BaseEvent
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func NewPrincipalCreatedEvent(uid, email string) *PrincipalCreatedEvent {
	return &PrincipalCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePrincipalCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"uid":   uid,
				"email": email,
			},
		},
		UID:   uid,
		Email: email,
	}
}

// SessionEvent reports a login or logout for one principal.
type SessionEvent struct {
	BaseEvent
	UID   string `json:"uid"`
	Email string `json:"email"`
}

func NewSessionEvent(eventType, uid, email string) *SessionEvent {
	return &SessionEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"uid":   uid,
				"email": email,
			},
		},
		UID:   uid,
		Email: email,
	}
}

type LeaveStatusChangedEvent struct {
	BaseEvent
	LeaveID   int64  `json:"leave_id"`
	OwnerUID  string `json:"owner_uid"`
	Status    string `json:"status"`
	DecidedBy string `json:"decided_by"`
}

func NewLeaveStatusChangedEvent(leaveID int64, ownerUID, status, decidedBy string) *LeaveStatusChangedEvent {
	return &LeaveStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_id":   leaveID,
				"owner_uid":  ownerUID,
				"status":     status,
				"decided_by": decidedBy,
			},
		},
		LeaveID:   leaveID,
		OwnerUID:  ownerUID,
		Status:    status,
		DecidedBy: decidedBy,
	}
}
