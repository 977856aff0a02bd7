package tracks

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/dev0b1/selah-sub001/internal/models"
)

// defaultPools maps each mood to its background-track pool. Filenames
// are resolved against the configured track directory by the mixer.
var defaultPools = map[models.MoodType][]string{
	models.MoodDrill:    {"drill_cadence.mp3", "drill_warpath.mp3", "drill_ironwill.mp3"},
	models.MoodEpic:     {"epic_horizon.mp3", "epic_ascension.mp3", "epic_colossus.mp3"},
	models.MoodCalm:     {"calm_stillwater.mp3", "calm_daybreak.mp3"},
	models.MoodIntense:  {"intense_surge.mp3", "intense_redline.mp3", "intense_pursuit.mp3"},
	models.MoodOvercome: {"overcome_summit.mp3", "overcome_rising.mp3"},
}

// fallbackPool is used when a mood somehow has no registered pool. The
// mood enum is closed so this should never be hit, but the lookup must
// not panic.
var fallbackPool = []string{"epic_horizon.mp3"}

// Registry selects background tracks for moods. The randomness source
// is injectable so tests can pin the selection.
type Registry struct {
	pools map[models.MoodType][]string
	rng   *rand.Rand
}

// NewRegistry builds a registry over the default pools. A nil rng gets
// a time-seeded source.
func NewRegistry(rng *rand.Rand) *Registry {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Registry{
		pools: defaultPools,
		rng:   rng,
	}
}

// NewRegistryWithPools builds a registry over custom pools, for tests.
func NewRegistryWithPools(pools map[models.MoodType][]string, rng *rand.Rand) *Registry {
	r := NewRegistry(rng)
	r.pools = pools
	return r
}

// Pick returns a uniformly random track from the pool for mood.
func (r *Registry) Pick(mood models.MoodType) string {
	pool, ok := r.pools[mood]
	if !ok || len(pool) == 0 {
		logrus.WithField("mood", mood).Warn("no track pool registered for mood, using fallback")
		pool = fallbackPool
	}
	return pool[r.rng.Intn(len(pool))]
}

// Pool returns the registered pool for mood, or the fallback pool.
func (r *Registry) Pool(mood models.MoodType) []string {
	if pool, ok := r.pools[mood]; ok && len(pool) > 0 {
		return pool
	}
	return fallbackPool
}
