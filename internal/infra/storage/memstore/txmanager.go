package memstore

import "context"

// TxManager serializes transactions over the store
type TxManager struct {
	store *Store
}

// Do runs fn as one atomic unit; an error rolls back every write made through ctx
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable same as Do; memstore transactions are always serializable
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly same as Do
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if m.store.inTx(ctx) {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := m.store.snapshot()

	defer func() {
		if p := recover(); p != nil {
			m.store.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, m.store)); err != nil {
		m.store.restore(snap)
		return err
	}

	return nil
}
