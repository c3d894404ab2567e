package store

import (
	"fmt"

	dbm "github.com/tendermint/tm-db"
)

type write struct {
	value   []byte
	deleted bool
}

// Tx buffers the writes of one marketplace operation. Reads see the buffered writes
// first. A Tx that is never committed leaves the store untouched, which is how a
// failed operation reverts.
type Tx struct {
	view
	db     dbm.DB
	writes map[string]write
}

func (tx *Tx) get(key []byte) ([]byte, error) {
	if w, ok := tx.writes[string(key)]; ok {
		if w.deleted {
			return nil, nil
		}
		return w.value, nil
	}
	return tx.db.Get(key)
}

func (tx *Tx) set(key, value []byte) {
	tx.writes[string(key)] = write{value: value}
}

func (tx *Tx) delete(key []byte) {
	tx.writes[string(key)] = write{deleted: true}
}

// Commit writes all buffered changes in one batch.
func (tx *Tx) Commit() error {
	if len(tx.writes) == 0 {
		return nil
	}

	batch := tx.db.NewBatch()
	defer batch.Close()

	for key, w := range tx.writes {
		var err error
		if w.deleted {
			err = batch.Delete([]byte(key))
		} else {
			err = batch.Set([]byte(key), w.value)
		}
		if err != nil {
			return fmt.Errorf("failed to stage write: %w", err)
		}
	}

	if err := batch.WriteSync(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	tx.writes = make(map[string]write)
	return nil
}
