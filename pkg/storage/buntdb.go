package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raykavin/stockcast/pkg/core"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

const createdIndex = "created_index"

// BuntStorage implements core.RunStorage on BuntDB, one JSON document per run
type BuntStorage struct {
	db *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage opens sourceFile and indexes runs by creation time
func NewBuntStorage(sourceFile string) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(createdIndex, "*", buntdb.IndexJSON("created_at"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntStorage{db: db}, nil
}

// SaveRun stores a run under its ID, assigning one when empty
func (b *BuntStorage) SaveRun(run *core.Run) error {
	stamp(run)

	return b.db.Update(func(tx *buntdb.Tx) error {
		content, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("failed to marshal run: %w", err)
		}

		_, _, err = tx.Set(run.ID, string(content), nil)
		if err != nil {
			return fmt.Errorf("failed to store run: %w", err)
		}

		return nil
	})
}

// Run retrieves a single run by ID
func (b *BuntStorage) Run(id string) (*core.Run, error) {
	var run core.Run

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(id)
		if err != nil {
			return fmt.Errorf("run %s: %w", id, err)
		}
		return json.Unmarshal([]byte(value), &run)
	})
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// Runs retrieves runs oldest first, keeping those accepted by every filter
func (b *BuntStorage) Runs(filters ...core.RunFilter) ([]*core.Run, error) {
	runs := make([]*core.Run, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		err := tx.Ascend(createdIndex, func(key, value string) bool {
			var run core.Run
			if err := json.Unmarshal([]byte(value), &run); err != nil {
				log.WithError(err).WithField("key", key).Warn("skipping unreadable run")
				return true
			}

			if accept(run, filters) {
				runs = append(runs, &run)
			}
			return true
		})

		if err != nil {
			return fmt.Errorf("failed to iterate over runs: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return runs, nil
}

// Close closes the database
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// stamp fills the identity fields a caller left empty and keeps CreatedAt at whole
// UTC seconds, so its RFC3339 text sorts in time order inside the JSON index
func stamp(run *core.Run) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC().Truncate(time.Second)
}

func accept(run core.Run, filters []core.RunFilter) bool {
	for _, filter := range filters {
		if !filter(run) {
			return false
		}
	}
	return true
}
