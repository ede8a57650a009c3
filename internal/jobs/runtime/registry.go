package runtime

import (
	"fmt"
	"sync"

	"github.com/yungbote/coursejobs/internal/domain/jobs"
)

type Handler interface {
	Type() jobs.Type
	// Kind names the job in user-facing messages, e.g. "Course copy".
	Kind() string
	Run(ctx *Context) error
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[jobs.Type]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[jobs.Type]Handler)}
}

func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler")
	}
	t := h.Type()
	if !t.Valid() {
		return fmt.Errorf("handler Type() %q is not a known job type", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[t]; exists {
		return fmt.Errorf("handler already registered for job_type=%s", t)
	}
	r.handlers[t] = h
	return nil
}

func (r *Registry) Get(jobType jobs.Type) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[jobType]
	return h, ok
}
