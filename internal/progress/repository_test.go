package progress

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct{}

func (failingStorage) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk on fire") }
func (failingStorage) Set(string, []byte) error         { return errors.New("disk on fire") }
func (failingStorage) Delete(string) error              { return errors.New("disk on fire") }

func TestRepositoryRoundTrip(t *testing.T) {
	s := NewMemoryStorage()
	repo := NewRepository(s, nil)

	p, _ := ApplyObservation(DefaultProgress(), sunny("2024-01-01"))
	require.NoError(t, repo.Save(p))

	raw, ok, err := s.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"version":1`)

	got := repo.Load()
	assert.Equal(t, p.Streak, got.Streak)
	assert.Equal(t, p.Points, got.Points)
	assert.Equal(t, p.Stats.CitiesChecked, got.Stats.CitiesChecked)
	assert.True(t, achievement(t, got, "first_check").Unlocked)
}

func TestRepositoryFallsBackToDefaults(t *testing.T) {
	blobs := map[string]string{
		"not json":        `{{{`,
		"negative streak": `{"version":1,"streak":-4,"tempUnit":"C"}`,
		"bad unit":        `{"version":1,"tempUnit":"K"}`,
		"bad date":        `{"version":1,"tempUnit":"C","lastCheckDate":"yesterday"}`,
		"future version":  `{"version":99,"tempUnit":"C"}`,
		"bad achievement": `{"version":1,"tempUnit":"C","achievements":[{"id":"","goal":0}]}`,
	}
	for name, blob := range blobs {
		t.Run(name, func(t *testing.T) {
			s := NewMemoryStorage()
			require.NoError(t, s.Set(StorageKey, []byte(blob)))

			got := NewRepository(s, nil).Load()
			assert.Equal(t, DefaultProgress(), got)
		})
	}
}

func TestRepositoryUpgradesUntaggedBlob(t *testing.T) {
	s := NewMemoryStorage()
	legacy := `{"streak":2,"points":35,"lastCheckDate":"2024-01-02",
		"stats":{"daysChecked":2,"sunnyDays":2,"highestTemp":31,"lowestTemp":29},
		"achievements":[{"id":"first_check","unlocked":true,"progress":1,"goal":1}]}`
	require.NoError(t, s.Set(StorageKey, []byte(legacy)))

	got := NewRepository(s, nil).Load()
	assert.Equal(t, SchemaVersion, got.Version)
	assert.Equal(t, Celsius, got.TempUnit)
	assert.Equal(t, 2, got.Streak)
	assert.Len(t, got.Achievements, len(catalog), "missing catalog entries are added")
	assert.True(t, achievement(t, got, "first_check").Unlocked)
	assert.Equal(t, []string{}, got.Stats.CitiesChecked)
}

func TestRepositoryPartialBlobKeepsTemperatureSentinels(t *testing.T) {
	s := NewMemoryStorage()
	partial := `{"version":1,"streak":2,"points":35,"tempUnit":"F","lastCheckDate":"2024-01-02","stats":{"daysChecked":2}}`
	require.NoError(t, s.Set(StorageKey, []byte(partial)))

	got := NewRepository(s, nil).Load()
	assert.Equal(t, 2, got.Streak)
	assert.Equal(t, Fahrenheit, got.TempUnit)
	assert.Equal(t, 2, got.Stats.DaysChecked)
	assert.Equal(t, NoHighestTemp, got.Stats.HighestTemp)
	assert.Equal(t, NoLowestTemp, got.Stats.LowestTemp)

	obs := sunny("2024-01-03")
	obs.Temperature = 5
	next, _ := ApplyObservation(got, obs)
	assert.Equal(t, 5, next.Stats.HighestTemp)
	assert.Equal(t, 5, next.Stats.LowestTemp)
}

func TestRepositoryStorageErrors(t *testing.T) {
	repo := NewRepository(failingStorage{}, nil)
	assert.Equal(t, DefaultProgress(), repo.Load())
	assert.Error(t, repo.Save(DefaultProgress()))
}

func TestKeeperPersistsEveryMutation(t *testing.T) {
	s := NewMemoryStorage()
	k := NewKeeper(NewRepository(s, nil))

	_, unlocked, err := k.Check(sunny("2024-01-01"))
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_check", unlocked[0].ID)

	_, err = k.SetTempUnit(Fahrenheit)
	require.NoError(t, err)

	// a fresh keeper over the same storage sees both changes
	reloaded := NewKeeper(NewRepository(s, nil)).Progress()
	assert.Equal(t, 1, reloaded.Stats.DaysChecked)
	assert.Equal(t, Fahrenheit, reloaded.TempUnit)

	p, err := k.Reset()
	require.NoError(t, err)
	assert.Zero(t, p.Points)
	_, ok, _ := s.Get(StorageKey)
	assert.False(t, ok)
}

func TestKeeperRejectsBadUnit(t *testing.T) {
	k := NewKeeper(NewRepository(NewMemoryStorage(), nil))
	p, err := k.SetTempUnit("X")
	assert.ErrorIs(t, err, ErrInvalidTempUnit)
	assert.Equal(t, Celsius, p.TempUnit)
}

func TestKeeperSerializesChecks(t *testing.T) {
	k := NewKeeper(NewRepository(NewMemoryStorage(), nil))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = k.Check(sunny("2024-01-01"))
		}()
	}
	wg.Wait()

	p := k.Progress()
	assert.Equal(t, 1, p.Stats.DaysChecked)
	assert.Equal(t, 1, p.Stats.SunnyDays)
	assert.Equal(t, 1, p.Streak)
}

func TestKeeperProgressIsACopy(t *testing.T) {
	k := NewKeeper(NewRepository(NewMemoryStorage(), nil))
	p := k.Progress()
	p.Achievements[0].Unlocked = true

	assert.False(t, k.Progress().Achievements[0].Unlocked)
}
