package authstate

import (
	"context"
	"sync"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

// Provider delivers identity changes of one page. The callback receives the
// current identity once and then every change, in order.
type Provider interface {
	Subscribe(ctx context.Context, pageID string, fn func(*model.Identity)) (unsubscribe func())
}

// Listener owns the single subscription of a page.
type Listener struct {
	mu          sync.Mutex
	state       *State
	onChange    func(model.Session)
	unsubscribe func()
	closed      bool
}

// Listen subscribes to provider for pageID and applies every notification to
// state. onChange runs when the session becomes ready or its identity changes.
func Listen(ctx context.Context, provider Provider, pageID string, state *State, onChange func(model.Session)) *Listener {
	l := &Listener{state: state, onChange: onChange}
	unsubscribe := provider.Subscribe(ctx, pageID, l.handle)

	l.mu.Lock()
	l.unsubscribe = unsubscribe
	l.mu.Unlock()
	return l
}

func (l *Listener) handle(identity *model.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	session, changed := l.state.Apply(identity)
	if changed && l.onChange != nil {
		l.onChange(session)
	}
}

// Close releases the subscription. No notification reaches the state after
// Close returns.
func (l *Listener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
