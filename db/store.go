package db

import (
	"gorm.io/gorm"
)

// Store bundles every repository over one database handle. Trigger
// handlers receive a Store built from the transaction of the mutation
// that fired them, so their side effects commit or roll back with it.
type Store struct {
	Users         AuthRepository
	Conversations ConversationRepository
	Messages      MessageRepository
	Notifications NotificationRepository
}

func NewStore(db *gorm.DB) Store {
	return Store{
		Users:         &authRepo{DB: db},
		Conversations: &conversationRepo{DB: db},
		Messages:      &messageRepo{DB: db},
		Notifications: &notificationRepo{DB: db},
	}
}

// TxManager runs a unit of work atomically.
type TxManager interface {
	Run(fn func(store Store) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(g *GormDB) TxManager {
	return &gormTxManager{db: g.DB}
}

func (m *gormTxManager) Run(fn func(store Store) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
