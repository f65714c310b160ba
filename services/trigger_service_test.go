package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/messaging/models"
)

func TestMessageCreatedNotifiesReceiverOnly(t *testing.T) {
	f := newFakeData()
	sender := f.addUser(models.RoleAdmin)
	receiver := f.addUser(models.RoleGuest)
	conv := f.addConversation(sender, receiver)
	message := f.addMessage(conv, sender, receiver, "hello", nil, time.Now())

	engine := NewTriggerEngine()
	if err := engine.MessageCreated(f.store(), message); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.notifications) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(f.notifications))
	}
	n := f.notifications[0]
	if n.UserID != receiver.ID {
		t.Errorf("notification should target the receiver, got %s", n.UserID)
	}
	if n.UserID == sender.ID {
		t.Error("notification must not target the sender")
	}
	if n.MessageID != message.ID {
		t.Errorf("notification should reference the message, got %s", n.MessageID)
	}
	if n.IsRead {
		t.Error("new notifications must start unread")
	}
}

func TestMessageUpdatingLogsHistoryOnContentChange(t *testing.T) {
	f := newFakeData()
	sender := f.addUser(models.RoleAdmin)
	receiver := f.addUser(models.RoleGuest)
	conv := f.addConversation(sender, receiver)
	old := f.addMessage(conv, sender, receiver, "original", nil, time.Now())

	incoming := *old
	incoming.Content = "edited"

	engine := NewTriggerEngine()
	if err := engine.MessageUpdating(f.store(), old, &incoming, sender.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.histories) != 1 {
		t.Fatalf("expected exactly 1 history row, got %d", len(f.histories))
	}
	h := f.histories[0]
	if h.OldContent != "original" {
		t.Errorf("history must carry the previous content, got %q", h.OldContent)
	}
	if h.MessageID != old.ID {
		t.Errorf("history must reference the message, got %s", h.MessageID)
	}
	if h.EditedByID != sender.ID {
		t.Errorf("history must record the editor, got %s", h.EditedByID)
	}
	if !incoming.Edited {
		t.Error("message must be marked edited")
	}
}

func TestMessageUpdatingNoHistoryWhenContentUnchanged(t *testing.T) {
	f := newFakeData()
	sender := f.addUser(models.RoleAdmin)
	receiver := f.addUser(models.RoleGuest)
	conv := f.addConversation(sender, receiver)
	old := f.addMessage(conv, sender, receiver, "same", nil, time.Now())

	incoming := *old
	incoming.Read = true // unrelated field change

	engine := NewTriggerEngine()
	if err := engine.MessageUpdating(f.store(), old, &incoming, sender.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.histories) != 0 {
		t.Fatalf("expected no history rows, got %d", len(f.histories))
	}
	if incoming.Edited {
		t.Error("message must not be marked edited")
	}
}

func TestMessageUpdatingSkipsMissingMessage(t *testing.T) {
	f := newFakeData()
	sender := f.addUser(models.RoleAdmin)

	incoming := &models.Message{ID: uuid.New(), Content: "new"}

	engine := NewTriggerEngine()
	if err := engine.MessageUpdating(f.store(), nil, incoming, sender.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.histories) != 0 {
		t.Fatalf("expected no history rows, got %d", len(f.histories))
	}
}

func TestUserDeletedCascade(t *testing.T) {
	f := newFakeData()
	alice := f.addUser(models.RoleAdmin)
	bob := f.addUser(models.RoleGuest)
	carol := f.addUser(models.RoleHost)

	shared := f.addConversation(alice, bob)
	solo := f.addConversation(alice)
	other := f.addConversation(bob, carol)

	sent := f.addMessage(shared, alice, bob, "from alice", nil, time.Now())
	received := f.addMessage(shared, bob, alice, "to alice", nil, time.Now())
	unrelated := f.addMessage(other, bob, carol, "between others", nil, time.Now())

	f.histories = append(f.histories,
		models.MessageHistory{ID: uuid.New(), MessageID: sent.ID, OldContent: "x", EditedByID: alice.ID},
		models.MessageHistory{ID: uuid.New(), MessageID: unrelated.ID, OldContent: "y", EditedByID: bob.ID},
	)
	f.notifications = append(f.notifications,
		models.Notification{Model: models.Model{ID: uuid.New()}, UserID: alice.ID, MessageID: received.ID},
		models.Notification{Model: models.Model{ID: uuid.New()}, UserID: bob.ID, MessageID: sent.ID},
	)

	engine := NewTriggerEngine()
	engine.UserDeleted(f.store(), alice)

	for _, m := range f.messages {
		if m.SenderID == alice.ID || m.ReceiverID == alice.ID {
			t.Errorf("message %s still references the deleted user", m.ID)
		}
	}
	if _, ok := f.messages[unrelated.ID]; !ok {
		t.Error("messages between other users must survive")
	}
	for _, h := range f.histories {
		if h.EditedByID == alice.ID {
			t.Error("history rows edited by the deleted user must be removed")
		}
	}
	for _, n := range f.notifications {
		if n.UserID == alice.ID {
			t.Error("notifications for the deleted user must be removed")
		}
	}
	if f.conversations[shared.ID].HasParticipant(alice.ID) {
		t.Error("deleted user must be removed from conversation participants")
	}
	if !f.conversations[shared.ID].HasParticipant(bob.ID) {
		t.Error("remaining participants must be kept")
	}
	if _, ok := f.conversations[solo.ID]; ok {
		t.Error("conversation left with zero participants must be deleted")
	}
	if _, ok := f.conversations[other.ID]; !ok {
		t.Error("unrelated conversations must survive")
	}
}

// failingNotificationRepo makes the cascade fail partway through.
type failingNotificationRepo struct {
	fakeNotificationRepo
}

func (r *failingNotificationRepo) DeleteNotificationsByUser(userID uuid.UUID) error {
	return fmt.Errorf("storage unreachable")
}

func TestUserDeletedCascadeSwallowsFailures(t *testing.T) {
	f := newFakeData()
	alice := f.addUser(models.RoleAdmin)
	bob := f.addUser(models.RoleGuest)
	conv := f.addConversation(alice, bob)
	f.addMessage(conv, alice, bob, "hello", nil, time.Now())

	store := f.store()
	store.Notifications = &failingNotificationRepo{fakeNotificationRepo{f}}

	engine := NewTriggerEngine()
	// Must not panic or propagate; the failure is logged only.
	engine.UserDeleted(store, alice)

	// Work before the failure still happened.
	for _, m := range f.messages {
		if m.SenderID == alice.ID {
			t.Error("messages should have been deleted before the failing step")
		}
	}
}
