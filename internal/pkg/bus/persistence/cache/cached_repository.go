package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	cacheport "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/cache/port"
	bus "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	repository "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/persistence/repository/port"
)

// CachedBusRepository decorates a BusRepository with a read-through cache on
// FindByID. The chat and detection paths resolve the same bus on nearly every
// request, so even a short TTL takes most of that load off Postgres. Cache
// failures degrade to the underlying repository, never to an error.
type CachedBusRepository struct {
	repository.BusRepository
	cache cacheport.Cache
	ttl   time.Duration
}

func NewCachedBusRepository(inner repository.BusRepository, c cacheport.Cache, ttl time.Duration) *CachedBusRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedBusRepository{BusRepository: inner, cache: c, ttl: ttl}
}

var _ repository.BusRepository = (*CachedBusRepository)(nil)

func cacheKey(id string) string { return "bus:" + id }

func (r *CachedBusRepository) FindByID(ctx context.Context, id string) (*bus.Bus, error) {
	if raw, err := r.cache.Get(ctx, cacheKey(id)); err == nil {
		var b bus.Bus
		if jsonErr := json.Unmarshal([]byte(raw), &b); jsonErr == nil {
			return &b, nil
		}
		// Corrupt entry: drop it and fall through to the source of truth.
		_, _ = r.cache.Del(ctx, cacheKey(id))
	} else if !errors.Is(err, cacheport.ErrMiss) {
		log.Printf("bus cache: get %s: %v", id, err)
	}

	b, err := r.BusRepository.FindByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	if raw, jsonErr := json.Marshal(b); jsonErr == nil {
		if setErr := r.cache.Set(ctx, cacheKey(id), string(raw), r.ttl); setErr != nil {
			log.Printf("bus cache: set %s: %v", id, setErr)
		}
	}
	return b, nil
}

// Mutators invalidate before delegating so a stale row is never served after
// a write acknowledged to the caller.

func (r *CachedBusRepository) Update(ctx context.Context, id string, u bus.Update) (*bus.Bus, error) {
	r.invalidate(ctx, id)
	return r.BusRepository.Update(ctx, id, u)
}

func (r *CachedBusRepository) Delete(ctx context.Context, id string) error {
	r.invalidate(ctx, id)
	return r.BusRepository.Delete(ctx, id)
}

func (r *CachedBusRepository) SetCrowd(ctx context.Context, id string, level bus.CrowdLevel, count int) error {
	r.invalidate(ctx, id)
	return r.BusRepository.SetCrowd(ctx, id, level, count)
}

func (r *CachedBusRepository) SetMonitoring(ctx context.Context, id string, monitoring bool) error {
	r.invalidate(ctx, id)
	return r.BusRepository.SetMonitoring(ctx, id, monitoring)
}

func (r *CachedBusRepository) SetVideoTask(ctx context.Context, id string, taskID *string, status *string) error {
	r.invalidate(ctx, id)
	return r.BusRepository.SetVideoTask(ctx, id, taskID, status)
}

func (r *CachedBusRepository) SetPublicToken(ctx context.Context, id string, token string) error {
	r.invalidate(ctx, id)
	return r.BusRepository.SetPublicToken(ctx, id, token)
}

func (r *CachedBusRepository) SetVideoURL(ctx context.Context, id string, videoURL string) error {
	r.invalidate(ctx, id)
	return r.BusRepository.SetVideoURL(ctx, id, videoURL)
}

func (r *CachedBusRepository) invalidate(ctx context.Context, id string) {
	if _, err := r.cache.Del(ctx, cacheKey(id)); err != nil {
		log.Printf("bus cache: invalidate %s: %v", id, err)
	}
}
