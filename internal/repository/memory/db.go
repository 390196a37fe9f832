// Package memory is an in-process template store used for local development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"quizdash/internal/domain/repositories"
)

// row is a stored template with its body kept in encoded form.
type row struct {
	id        string
	name      string
	content   string
	createdBy *string
	quizID    *string
	isDefault bool
	version   int
	createdAt time.Time
	updatedAt time.Time
}

// DB holds every table of the in-memory store.
type DB struct {
	mutex     sync.RWMutex
	txMutex   sync.Mutex
	templates map[string]*row
}

// NewDB returns an empty store.
func NewDB() *DB {
	return &DB{templates: make(map[string]*row)}
}

func (db *DB) snapshot() map[string]*row {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	snap := make(map[string]*row, len(db.templates))
	for id, r := range db.templates {
		c := *r
		snap[id] = &c
	}
	return snap
}

func (db *DB) restore(snap map[string]*row) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.templates = snap
}

// TransactionManager serializes transactions and rolls the store back
// to its state at begin when the function fails.
type TransactionManager struct {
	db *DB
}

// NewTransactionManager creates a transaction manager over db
func NewTransactionManager(db *DB) repositories.TransactionManager {
	return &TransactionManager{db: db}
}

// ExecTx executes fn, restoring the store if it returns an error
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.db.txMutex.Lock()
	defer tm.db.txMutex.Unlock()

	snap := tm.db.snapshot()
	if err := fn(ctx); err != nil {
		tm.db.restore(snap)
		return err
	}
	return nil
}
