// Package leveldb stores tab snapshots in a local LevelDB database so they
// survive restarts of a single instance.
package leveldb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/flashscore-gateway/internal/domain/tournament"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	snapshotKeyPrefix = "snap:"
	keySeparator      = "\x00"
)

type snapshotRecord struct {
	Payload     sonicRaw  `json:"payload"`
	FetchStatus string    `json:"fetch_status"`
	SavedAt     time.Time `json:"saved_at"`
}

type sonicRaw []byte

func (r sonicRaw) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *sonicRaw) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

type SnapshotRepository struct {
	db *leveldb.DB
}

func Open(path string) (*SnapshotRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("leveldb path is required")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb path=%s: %w", path, err)
	}
	return &SnapshotRepository{db: db}, nil
}

func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

func (r *SnapshotRepository) Get(_ context.Context, entityType, entityID string, tab tournament.Tab) (tournament.Snapshot, bool, error) {
	raw, err := r.db.Get(snapshotKey(entityType, entityID, tab), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return tournament.Snapshot{}, false, nil
		}
		return tournament.Snapshot{}, false, fmt.Errorf("get leveldb snapshot: %w", err)
	}

	var record snapshotRecord
	if err := sonic.Unmarshal(raw, &record); err != nil {
		return tournament.Snapshot{}, false, fmt.Errorf("decode leveldb snapshot: %w", err)
	}
	var data any
	if len(record.Payload) > 0 {
		if err := sonic.Unmarshal(record.Payload, &data); err != nil {
			return tournament.Snapshot{}, false, fmt.Errorf("decode leveldb snapshot payload: %w", err)
		}
	}

	return tournament.Snapshot{
		EntityType:  entityType,
		EntityID:    entityID,
		Tab:         tab,
		Payload:     data,
		FetchStatus: record.FetchStatus,
		SavedAt:     record.SavedAt,
	}, true, nil
}

func (r *SnapshotRepository) Upsert(_ context.Context, item tournament.Snapshot) error {
	payload, err := sonic.Marshal(item.Payload)
	if err != nil {
		return fmt.Errorf("encode leveldb snapshot payload: %w", err)
	}
	raw, err := sonic.Marshal(snapshotRecord{
		Payload:     payload,
		FetchStatus: item.FetchStatus,
		SavedAt:     item.SavedAt,
	})
	if err != nil {
		return fmt.Errorf("encode leveldb snapshot: %w", err)
	}

	if err := r.db.Put(snapshotKey(item.EntityType, item.EntityID, item.Tab), raw, &opt.WriteOptions{Sync: false}); err != nil {
		return fmt.Errorf("put leveldb snapshot entity=%s tab=%s: %w", item.EntityID, item.Tab, err)
	}
	return nil
}

// Count returns how many snapshots are stored for entityType.
func (r *SnapshotRepository) Count(entityType string) int {
	it := r.db.NewIterator(util.BytesPrefix([]byte(snapshotKeyPrefix+entityType+keySeparator)), nil)
	defer it.Release()

	count := 0
	for it.Next() {
		count++
	}
	return count
}

func snapshotKey(entityType, entityID string, tab tournament.Tab) []byte {
	return []byte(snapshotKeyPrefix + entityType + keySeparator + entityID + keySeparator + string(tab))
}
