package dashboard

import "sync"

// Registry keeps one Controller per browser, the way a browser keeps one
// dashboard screen per tab.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	newFn       func() *Controller
}

func NewRegistry(newFn func() *Controller) *Registry {
	return &Registry{
		controllers: make(map[string]*Controller),
		newFn:       newFn,
	}
}

func (r *Registry) Get(browserID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[browserID]
	if !ok {
		c = r.newFn()
		r.controllers[browserID] = c
	}
	return c
}

func (r *Registry) Forget(browserID string) {
	r.mu.Lock()
	delete(r.controllers, browserID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
