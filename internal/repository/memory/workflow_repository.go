package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"sycophancy-survey-be/pkg/survey"
)

// WorkflowRepository holds per-client survey runtimes (machine + driver)
// in process. Runtimes are rebuilt from the session store on a cache
// miss, so eviction only costs a reload.
type WorkflowRepository struct {
	cache *cache.Cache
}

func NewWorkflowRepository(defaultTTL, cleanupInterval time.Duration) *WorkflowRepository {
	return &WorkflowRepository{
		cache: cache.New(defaultTTL, cleanupInterval),
	}
}

func (r *WorkflowRepository) Get(clientKey string) (*survey.Runtime, bool) {
	raw, found := r.cache.Get(clientKey)
	if !found {
		return nil, false
	}
	runtime, ok := raw.(*survey.Runtime)
	return runtime, ok
}

func (r *WorkflowRepository) Save(clientKey string, runtime *survey.Runtime) {
	r.cache.Set(clientKey, runtime, cache.DefaultExpiration)
}

func (r *WorkflowRepository) Delete(clientKey string) {
	r.cache.Delete(clientKey)
}
