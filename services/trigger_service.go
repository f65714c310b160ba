package services

import (
	"log"

	"github.com/google/uuid"
	"github.com/techagentng/messaging/db"
	"github.com/techagentng/messaging/models"
)

// The trigger engine replaces implicit lifecycle signals with an
// explicit, ordered list of handlers that the mutation functions invoke
// themselves. Creation and edit handlers run on the same Store (and so
// the same transaction) as the triggering write; the user deletion
// cascade is the one documented exception to that rule.

type MessageCreatedHandler func(store db.Store, message *models.Message) error

type MessageUpdatingHandler func(store db.Store, old, incoming *models.Message, editorID uuid.UUID) error

type UserDeletedHandler func(store db.Store, user *models.User) error

type TriggerEngine struct {
	onMessageCreated  []MessageCreatedHandler
	onMessageUpdating []MessageUpdatingHandler
	onUserDeleted     []UserDeletedHandler
}

func NewTriggerEngine() *TriggerEngine {
	return &TriggerEngine{
		onMessageCreated:  []MessageCreatedHandler{createReceiverNotification},
		onMessageUpdating: []MessageUpdatingHandler{logContentEdit},
		onUserDeleted:     []UserDeletedHandler{cleanupUserData},
	}
}

// MessageCreated runs the post-create handlers. Any error aborts the
// surrounding transaction, so the message and its side effects commit
// together or not at all.
func (t *TriggerEngine) MessageCreated(store db.Store, message *models.Message) error {
	for _, h := range t.onMessageCreated {
		if err := h(store, message); err != nil {
			return err
		}
	}
	return nil
}

// MessageUpdating runs the pre-write handlers before an update is
// persisted. Handlers may mutate incoming (e.g. set the edited flag).
func (t *TriggerEngine) MessageUpdating(store db.Store, old, incoming *models.Message, editorID uuid.UUID) error {
	for _, h := range t.onMessageUpdating {
		if err := h(store, old, incoming, editorID); err != nil {
			return err
		}
	}
	return nil
}

// UserDeleted runs the post-delete cascade. The user row is already
// committed at this point, so handler failures are logged and swallowed
// rather than re-raised; partial cleanup is the accepted trade-off.
func (t *TriggerEngine) UserDeleted(store db.Store, user *models.User) {
	for _, h := range t.onUserDeleted {
		if err := h(store, user); err != nil {
			log.Printf("error cleaning up data for deleted user %s: %v", user.ID, err)
		}
	}
}

// createReceiverNotification writes exactly one notification for the
// receiver of a newly created message.
func createReceiverNotification(store db.Store, message *models.Message) error {
	return store.Notifications.CreateNotification(&models.Notification{
		UserID:    message.ReceiverID,
		MessageID: message.ID,
	})
}

// logContentEdit snapshots the old content into a history row when an
// update changes it, and marks the message edited. A message with no
// prior row is skipped; changes to other fields never log history.
func logContentEdit(store db.Store, old, incoming *models.Message, editorID uuid.UUID) error {
	if old == nil {
		return nil
	}
	if old.Content == incoming.Content {
		return nil
	}

	history := &models.MessageHistory{
		MessageID:  old.ID,
		OldContent: old.Content,
		EditedByID: editorID,
	}
	if err := store.Messages.CreateMessageHistory(history); err != nil {
		return err
	}

	incoming.Edited = true
	return nil
}

// cleanupUserData removes everything still referencing a deleted user:
// their sent and received messages, histories they authored as editor,
// their notifications, and their conversation memberships. Conversations
// left without participants are deleted too.
func cleanupUserData(store db.Store, user *models.User) error {
	if err := store.Messages.DeleteMessagesByUser(user.ID); err != nil {
		return err
	}
	if err := store.Messages.DeleteHistoriesByEditor(user.ID); err != nil {
		return err
	}
	if err := store.Notifications.DeleteNotificationsByUser(user.ID); err != nil {
		return err
	}

	conversations, err := store.Conversations.GetUserConversations(user.ID)
	if err != nil {
		return err
	}
	for i := range conversations {
		conversation := &conversations[i]
		if err := store.Conversations.RemoveParticipant(conversation, user.ID); err != nil {
			return err
		}
		count, err := store.Conversations.CountParticipants(conversation.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			if err := store.Conversations.DeleteConversation(conversation); err != nil {
				return err
			}
		}
	}
	return nil
}
