package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/meneric/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is one persisted state blob keyed by storage key.
type Snapshot struct {
	Key       string `gorm:"primaryKey;size:128"`
	Data      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

type GormRepo struct{ DB *gorm.DB }

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&Snapshot{})
}

func (r *GormRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var snap Snapshot
	err := r.DB.WithContext(ctx).Where(&Snapshot{Key: key}).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("key %q: %w", key, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, err
	}
	return []byte(snap.Data), nil
}

// Save overwrites the blob stored under key.
func (r *GormRepo) Save(ctx context.Context, key string, data []byte) error {
	snap := Snapshot{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap).Error
}

// StatePersister stores the whole tree as JSON under a fixed key.
type StatePersister struct {
	Repo *GormRepo
	Key  string
}

func (p *StatePersister) Persist(ctx context.Context, st models.AppState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return p.Repo.Save(ctx, p.Key, data)
}

// LoadState decodes the tree stored under key. When nothing is stored it
// returns ErrSnapshotNotFound and the caller seeds instead.
func (r *GormRepo) LoadState(ctx context.Context, key string) (models.AppState, error) {
	data, err := r.Load(ctx, key)
	if err != nil {
		return models.AppState{}, err
	}
	var st models.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return models.AppState{}, fmt.Errorf("decode state %q: %w", key, err)
	}
	return st.Clone(), nil
}
