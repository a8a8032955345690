package sqlitebooking

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok
}

// TxManager выполняет функции в транзакции SQLite.
// Все транзакции сериализуются мьютексом процесса: SQLite допускает одного писателя,
// а проверка занятости и вставка должны выполняться атомарно.
type TxManager struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewTxManager создает менеджер транзакций для хранилища
func NewTxManager(store *Store) *TxManager {
	return &TxManager{db: store.db}
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
