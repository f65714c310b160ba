package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/messaging/db"
	"github.com/techagentng/messaging/models"
	"gorm.io/gorm"
)

// fakeData is an in-memory stand-in for the entity store, shared by the
// fake repositories below.
type fakeData struct {
	users         map[uuid.UUID]*models.User
	conversations map[uuid.UUID]*models.Conversation
	messages      map[uuid.UUID]*models.Message
	histories     []models.MessageHistory
	notifications []models.Notification
}

func newFakeData() *fakeData {
	return &fakeData{
		users:         map[uuid.UUID]*models.User{},
		conversations: map[uuid.UUID]*models.Conversation{},
		messages:      map[uuid.UUID]*models.Message{},
	}
}

func (f *fakeData) store() db.Store {
	return db.Store{
		Users:         &fakeAuthRepo{f},
		Conversations: &fakeConversationRepo{f},
		Messages:      &fakeMessageRepo{f},
		Notifications: &fakeNotificationRepo{f},
	}
}

type fakeTxManager struct {
	f *fakeData
}

func (m *fakeTxManager) Run(fn func(store db.Store) error) error {
	return fn(m.f.store())
}

func (f *fakeData) addUser(role string) *models.User {
	user := &models.User{
		Model: models.Model{ID: uuid.New()},
		Role:  models.Role{ID: uuid.New(), Name: role},
	}
	user.RoleID = user.Role.ID
	f.users[user.ID] = user
	return user
}

func (f *fakeData) addConversation(participants ...*models.User) *models.Conversation {
	conversation := &models.Conversation{Model: models.Model{ID: uuid.New()}}
	for _, p := range participants {
		conversation.Participants = append(conversation.Participants, *p)
	}
	f.conversations[conversation.ID] = conversation
	return conversation
}

func (f *fakeData) addMessage(conv *models.Conversation, sender, receiver *models.User, content string, parent *models.Message, at time.Time) *models.Message {
	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       sender.ID,
		ReceiverID:     receiver.ID,
		Content:        content,
		CreatedAt:      at,
	}
	if parent != nil {
		parentID := parent.ID
		message.ParentMessageID = &parentID
	}
	f.messages[message.ID] = message
	return message
}

type fakeAuthRepo struct{ f *fakeData }

func (r *fakeAuthRepo) CreateUser(user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.f.users[user.ID] = user
	return user, nil
}

func (r *fakeAuthRepo) IsEmailExist(email string) error { return nil }

func (r *fakeAuthRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range r.f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAuthRepo) FindUserByID(id uuid.UUID) (*models.User, error) {
	if u, ok := r.f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAuthRepo) UpdateUser(user *models.User) error            { return nil }
func (r *fakeAuthRepo) AddToBlackList(b *models.Blacklist) error      { return nil }
func (r *fakeAuthRepo) IsTokenInBlacklist(token string) bool          { return false }
func (r *fakeAuthRepo) SetResetToken(email, token string) error       { return nil }
func (r *fakeAuthRepo) UpdatePassword(hashed, email string) error     { return nil }
func (r *fakeAuthRepo) FindRoleByName(name string) (*models.Role, error) {
	return &models.Role{ID: uuid.New(), Name: name}, nil
}

func (r *fakeAuthRepo) FindUserByResetToken(token string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAuthRepo) DeleteUser(user *models.User) error {
	delete(r.f.users, user.ID)
	return nil
}

type fakeConversationRepo struct{ f *fakeData }

func (r *fakeConversationRepo) CreateConversation(conversation *models.Conversation) error {
	r.f.conversations[conversation.ID] = conversation
	return nil
}

func (r *fakeConversationRepo) FindConversationByID(id uuid.UUID) (*models.Conversation, error) {
	if c, ok := r.f.conversations[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeConversationRepo) GetUserConversations(userID uuid.UUID) ([]models.Conversation, error) {
	var result []models.Conversation
	for _, c := range r.f.conversations {
		if c.HasParticipant(userID) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeConversationRepo) RemoveParticipant(conversation *models.Conversation, userID uuid.UUID) error {
	stored, ok := r.f.conversations[conversation.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	remaining := stored.Participants[:0]
	for _, p := range stored.Participants {
		if p.ID != userID {
			remaining = append(remaining, p)
		}
	}
	stored.Participants = remaining
	return nil
}

func (r *fakeConversationRepo) CountParticipants(conversationID uuid.UUID) (int64, error) {
	if c, ok := r.f.conversations[conversationID]; ok {
		return int64(len(c.Participants)), nil
	}
	return 0, nil
}

func (r *fakeConversationRepo) DeleteConversation(conversation *models.Conversation) error {
	delete(r.f.conversations, conversation.ID)
	return nil
}

type fakeMessageRepo struct{ f *fakeData }

func (r *fakeMessageRepo) CreateMessage(message *models.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	stored := *message
	r.f.messages[message.ID] = &stored
	return nil
}

func (r *fakeMessageRepo) FindMessageByID(id uuid.UUID) (*models.Message, error) {
	if m, ok := r.f.messages[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMessageRepo) FindMessageInConversation(messageID, conversationID uuid.UUID) (*models.Message, error) {
	m, ok := r.f.messages[messageID]
	if !ok || m.ConversationID != conversationID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMessageRepo) GetConversationMessages(conversationID uuid.UUID) ([]models.Message, error) {
	var result []models.Message
	for _, m := range r.f.messages {
		if m.ConversationID == conversationID {
			result = append(result, *m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeMessageRepo) FindReplies(parentID uuid.UUID) ([]models.Message, error) {
	var result []models.Message
	for _, m := range r.f.messages {
		if m.ParentMessageID != nil && *m.ParentMessageID == parentID {
			result = append(result, *m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeMessageRepo) UpdateMessage(message *models.Message) error {
	if _, ok := r.f.messages[message.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *message
	r.f.messages[message.ID] = &stored
	return nil
}

func (r *fakeMessageRepo) CreateMessageHistory(history *models.MessageHistory) error {
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	if history.EditedAt.IsZero() {
		history.EditedAt = time.Now()
	}
	r.f.histories = append(r.f.histories, *history)
	return nil
}

func (r *fakeMessageRepo) GetHistoriesByEditor(userID uuid.UUID) ([]models.MessageHistory, error) {
	var result []models.MessageHistory
	for _, h := range r.f.histories {
		if h.EditedByID == userID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) DeleteMessagesByUser(userID uuid.UUID) error {
	for id, m := range r.f.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			delete(r.f.messages, id)
		}
	}
	return nil
}

func (r *fakeMessageRepo) DeleteHistoriesByEditor(userID uuid.UUID) error {
	remaining := r.f.histories[:0]
	for _, h := range r.f.histories {
		if h.EditedByID != userID {
			remaining = append(remaining, h)
		}
	}
	r.f.histories = remaining
	return nil
}

type fakeNotificationRepo struct{ f *fakeData }

func (r *fakeNotificationRepo) CreateNotification(notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	r.f.notifications = append(r.f.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetUserNotifications(userID uuid.UUID) ([]models.Notification, error) {
	var result []models.Notification
	for _, n := range r.f.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkNotificationRead(notificationID, userID uuid.UUID) error {
	for i := range r.f.notifications {
		if r.f.notifications[i].ID == notificationID && r.f.notifications[i].UserID == userID {
			r.f.notifications[i].IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) DeleteNotificationsByUser(userID uuid.UUID) error {
	remaining := r.f.notifications[:0]
	for _, n := range r.f.notifications {
		if n.UserID != userID {
			remaining = append(remaining, n)
		}
	}
	r.f.notifications = remaining
	return nil
}
