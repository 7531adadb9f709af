package store

import (
	"context"
	"database/sql"
	"encoding/json"
	errs "errors"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mvdwetering/noveltui/internal/novel"
	"github.com/mvdwetering/noveltui/internal/util"
)

var ErrNoChange = errs.New("no change")

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error   { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// Open connects to DB per config.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, err
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// defaultSlot keys the single working project. The table supports more
// slots but the editor only uses one.
const defaultSlot = "default"

// NovelRepo persists the whole document as one JSON blob per project
// slot. The serialized form is the document's wire schema, unversioned.
type NovelRepo struct{ db *DB }

func NewNovelRepo(db *DB) *NovelRepo { return &NovelRepo{db: db} }

// Save upserts the serialized document into the working slot.
func (r *NovelRepo) Save(ctx context.Context, doc novel.Novel) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return wrap(err, "marshal novel")
	}
	err = r.db.gorm.WithContext(ctx).Exec(`INSERT INTO novels(slot, title, document, updated_at) VALUES (?,?,?,now())
	ON CONFLICT (slot) DO UPDATE SET title=EXCLUDED.title, document=EXCLUDED.document, updated_at=now()`,
		defaultSlot, doc.Title, body).Error
	return wrap(err, "save novel")
}

// Load returns the persisted document, or ok false when the slot is empty.
func (r *NovelRepo) Load(ctx context.Context) (novel.Novel, bool, error) {
	row := r.db.gorm.WithContext(ctx).Raw(`SELECT document FROM novels WHERE slot = ?`, defaultSlot).Row()
	var body []byte
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return novel.Novel{}, false, nil
		}
		return novel.Novel{}, false, wrap(err, "load novel")
	}
	var doc novel.Novel
	if err := json.Unmarshal(body, &doc); err != nil {
		return novel.Novel{}, false, wrap(err, "decode novel")
	}
	return doc, true, nil
}

// Clear deletes the working slot; reset runs this before re-seeding the
// template.
func (r *NovelRepo) Clear(ctx context.Context) error {
	err := r.db.gorm.WithContext(ctx).Exec(`DELETE FROM novels WHERE slot = ?`, defaultSlot).Error
	return wrap(err, "clear novel")
}

// SettingsRepo stores small key/value preferences (e.g. the UI theme).
type SettingsRepo struct{ db *DB }

func NewSettingsRepo(db *DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	err := r.db.gorm.WithContext(ctx).Exec(`INSERT INTO settings(key, value, updated_at) VALUES (?,?,now())
	ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`, key, value).Error
	return wrap(err, "save setting")
}

// Get returns the value, or ok false when the key is unset.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.gorm.WithContext(ctx).Raw(`SELECT value FROM settings WHERE key = ?`, key).Row()
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, wrap(err, "load setting")
	}
	return value, true, nil
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
