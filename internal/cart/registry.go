package cart

import "sync"

// Registry holds one cart per signed-in user for the HTTP layer.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// With runs fn on the user's cart while holding the registry lock, creating
// the cart on first use.
func (r *Registry) With(userID string, fn func(c *Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[userID]
	if !ok {
		c = New()
		r.carts[userID] = c
	}
	return fn(c)
}

// Drop discards the user's cart, after checkout or on logout.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	delete(r.carts, userID)
	r.mu.Unlock()
}
