package tracks

import (
	"math/rand"
	"testing"

	"github.com/dev0b1/selah-sub001/internal/models"
)

func TestPickReturnsTrackFromPool(t *testing.T) {
	registry := NewRegistry(rand.New(rand.NewSource(42)))

	for _, mood := range models.AllMoods {
		pool := registry.Pool(mood)
		if len(pool) == 0 {
			t.Fatalf("mood %s has an empty pool", mood)
		}

		picked := registry.Pick(mood)
		found := false
		for _, track := range pool {
			if track == picked {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Pick(%s) = %q, not in pool %v", mood, picked, pool)
		}
	}
}

func TestPickDeterministicWithSeededSource(t *testing.T) {
	pools := map[models.MoodType][]string{
		models.MoodDrill: {"a.mp3", "b.mp3", "c.mp3"},
	}

	first := NewRegistryWithPools(pools, rand.New(rand.NewSource(7)))
	second := NewRegistryWithPools(pools, rand.New(rand.NewSource(7)))

	for i := 0; i < 10; i++ {
		if a, b := first.Pick(models.MoodDrill), second.Pick(models.MoodDrill); a != b {
			t.Fatalf("pick %d diverged: %q vs %q", i, a, b)
		}
	}
}

func TestPickFallsBackForUnknownMood(t *testing.T) {
	registry := NewRegistryWithPools(map[models.MoodType][]string{}, rand.New(rand.NewSource(1)))

	picked := registry.Pick(models.MoodCalm)
	if picked != "epic_horizon.mp3" {
		t.Errorf("Pick() with no pools = %q, want the fallback track", picked)
	}
}

func TestPoolFallsBackForUnknownMood(t *testing.T) {
	registry := NewRegistryWithPools(map[models.MoodType][]string{}, rand.New(rand.NewSource(1)))

	pool := registry.Pool(models.MoodDrill)
	if len(pool) != 1 || pool[0] != "epic_horizon.mp3" {
		t.Errorf("Pool() with no pools = %v, want the fallback pool", pool)
	}
}

func TestEveryMoodHasDefaultPool(t *testing.T) {
	for _, mood := range models.AllMoods {
		pool, ok := defaultPools[mood]
		if !ok || len(pool) == 0 {
			t.Errorf("mood %s has no default track pool", mood)
		}
	}
}
