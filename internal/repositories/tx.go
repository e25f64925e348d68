package repositories

import "gorm.io/gorm"

// TxManager runs a function inside a single database transaction.
// Cart mutations and order creation must be atomic, so services take a
// TxManager instead of reaching for the raw handle.
type TxManager interface {
	Do(fn func(tx *gorm.DB) error) error
}

// GormTxManager is the GORM-backed TxManager.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager.
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do executes fn inside a transaction, committing on nil and rolling
// back on error.
func (m *GormTxManager) Do(fn func(tx *gorm.DB) error) error {
	return m.db.Transaction(fn)
}
