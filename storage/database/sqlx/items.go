package sqlxrepos

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/malindutharaka300/ucms-f/core/session"
)

type item struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// itemStorage is the durable key/value table behind the session store.
// When a secret is configured, values are sealed (signed and encrypted) at rest.
type itemStorage struct {
	db    *sqlx.DB
	codec *securecookie.SecureCookie
}

var _ session.Storage = (*itemStorage)(nil)

func NewItemStorage(db *sqlx.DB, secret string) session.Storage {
	st := &itemStorage{db: db}
	if secret != "" {
		hashKey := sha256.Sum256([]byte("ucms.storage.hash:" + secret))
		blockKey := sha256.Sum256([]byte("ucms.storage.block:" + secret))
		st.codec = securecookie.New(hashKey[:], blockKey[:]).MaxAge(0)
	}
	return st
}

func (st *itemStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var it item
	err := st.db.GetContext(ctx, &it, `SELECT key, value, updated_at FROM items WHERE key = ?`, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "getting item %q", key)
	}
	if st.codec == nil {
		return it.Value, true, nil
	}
	var value string
	if err := st.codec.Decode(key, it.Value, &value); err != nil {
		// sealed with another secret: as good as absent
		return "", false, nil
	}
	return value, true, nil
}

func (st *itemStorage) SetItem(ctx context.Context, key, value string) error {
	if st.codec != nil {
		sealed, err := st.codec.Encode(key, value)
		if err != nil {
			return errors.Wrapf(err, "sealing item %q", key)
		}
		value = sealed
	}
	_, err := st.db.NamedExecContext(ctx,
		`INSERT INTO items (key, value, updated_at) VALUES (:key, :value, :updated_at)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		item{Key: key, Value: value, UpdatedAt: time.Now().UTC()},
	)
	return errors.Wrapf(err, "setting item %q", key)
}

func (st *itemStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := st.db.ExecContext(ctx, `DELETE FROM items WHERE key = ?`, key)
	return errors.Wrapf(err, "removing item %q", key)
}
