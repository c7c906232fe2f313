package progress

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-dashboard/internal/logger"
)

// StorageKey is where the progress blob lives.
const StorageKey = "weather-dashboard:progress"

var validate = validator.New()

// Repository reads and writes the progress blob.
type Repository struct {
	storage Storage
	log     logger.Logger
}

func NewRepository(storage Storage, log logger.Logger) *Repository {
	if log == nil {
		log = logger.Discard()
	}
	return &Repository{storage: storage, log: log}
}

// Load returns the stored progress. Missing, unreadable or invalid data
// yields DefaultProgress.
func (r *Repository) Load() UserProgress {
	raw, ok, err := r.storage.Get(StorageKey)
	if err != nil {
		r.log.Warnf("progress: read failed, starting fresh: %v", err)
		return DefaultProgress()
	}
	if !ok || len(raw) == 0 {
		return DefaultProgress()
	}

	p, err := decode(raw)
	if err != nil {
		r.log.Warnf("progress: stored data is corrupt, starting fresh: %v", err)
		return DefaultProgress()
	}
	return p
}

// Save writes p as a whole.
func (r *Repository) Save(p UserProgress) error {
	p.Version = SchemaVersion
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	return r.storage.Set(StorageKey, raw)
}

// Reset removes the stored progress.
func (r *Repository) Reset() error {
	return r.storage.Delete(StorageKey)
}

// decode reads raw over the defaults, so fields a blob leaves out keep
// their first-run values (notably the temperature sentinels).
func decode(raw []byte) (UserProgress, error) {
	p := DefaultProgress()
	// json reuses slice elements in place; the catalog is merged back below
	p.Achievements = nil
	if err := json.Unmarshal(raw, &p); err != nil {
		return UserProgress{}, err
	}
	if p.Version > SchemaVersion {
		return UserProgress{}, fmt.Errorf("unsupported progress version %d", p.Version)
	}

	// untagged blobs predate the version field
	p.Version = SchemaVersion
	if p.TempUnit == "" {
		p.TempUnit = Celsius
	}
	if p.Stats.CitiesChecked == nil {
		p.Stats.CitiesChecked = []string{}
	}

	if err := validate.Struct(p); err != nil {
		return UserProgress{}, err
	}
	p.Achievements = mergeCatalog(p.Achievements)
	return p, nil
}
