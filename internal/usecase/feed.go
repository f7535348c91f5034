package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/riskibarqy/courtside/internal/domain/realtime"
	"github.com/riskibarqy/courtside/internal/platform/logging"
)

type feedAction int

const (
	feedIgnore feedAction = iota
	// feedMerge adds a record unless its identity is already projected.
	feedMerge
	// feedReplace adds a record or overwrites the projected one.
	feedReplace
	feedRemove
)

// feedSource describes one remote collection to a Feed.
type feedSource[S comparable, T any] interface {
	Collection() string
	Snapshot(ctx context.Context, scope S) ([]T, error)
	// Classify decides what a change event means for a projection opened under scope.
	Classify(scope S, event realtime.ChangeEvent) (feedAction, T, error)
	Key(item T) string
	Less(a, b T) bool
}

type FeedChangeKind int

const (
	FeedReset FeedChangeKind = iota
	FeedInserted
	FeedUpdated
	FeedRemoved
)

type FeedChange[T any] struct {
	Kind FeedChangeKind
	Item T
	// Live is set for changes delivered by the subscription.
	Live bool
}

// RetryPolicy bounds the exponential backoff used to reopen a failed subscription.
type RetryPolicy struct {
	Initial     time.Duration
	MaxInterval time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Initial:     500 * time.Millisecond,
		MaxInterval: 30 * time.Second,
	}
}

func (p RetryPolicy) normalize() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.Initial <= 0 {
		p.Initial = def.Initial
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = def.MaxInterval
	}
	if p.MaxInterval < p.Initial {
		p.MaxInterval = p.Initial
	}
	return p
}

var errFeedSuperseded = errors.New("feed generation superseded")

type pendingChange[T any] struct {
	action feedAction
	item   T
}

// Feed keeps an in-memory projection of one remote collection for one scope:
// a snapshot plus a live subscription, merged by record ID.
//
// Every asynchronous completion carries the generation it was started under and
// is dropped once Activate or Deactivate has moved the generation on.
type Feed[S comparable, T any] struct {
	name       string
	source     feedSource[S, T]
	subscriber realtime.Subscriber
	retry      RetryPolicy
	logger     *logging.Logger

	mu        sync.Mutex
	active    bool
	scope     S
	gen       uint64
	cancel    context.CancelFunc
	sub       realtime.Subscription
	items     map[string]T
	ordered   []T
	version   uint64
	loadSeq   uint64
	loading   bool
	pending   []pendingChange[T]
	observers []func(FeedChange[T])
}

func newFeed[S comparable, T any](
	name string,
	source feedSource[S, T],
	subscriber realtime.Subscriber,
	retry RetryPolicy,
	logger *logging.Logger,
) *Feed[S, T] {
	if logger == nil {
		logger = logging.Default()
	}
	return &Feed[S, T]{
		name:       name,
		source:     source,
		subscriber: subscriber,
		retry:      retry.normalize(),
		logger:     logger.With("feed", name),
		items:      make(map[string]T),
	}
}

// OnChange registers fn to be called after every projection change.
// Observers run outside the feed lock, in the goroutine that caused the change.
func (f *Feed[S, T]) OnChange(fn func(FeedChange[T])) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	f.observers = append(f.observers, fn)
	f.mu.Unlock()
}

// Activate points the feed at scope: the previous subscription is closed, the
// projection is discarded, one subscription is opened and the snapshot is loaded.
// Activating the scope that is already active behaves as Refresh.
func (f *Feed[S, T]) Activate(ctx context.Context, scope S) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.Feed.Activate")
	defer span.End()

	f.mu.Lock()
	if f.active && f.scope == scope {
		f.mu.Unlock()
		return f.Refresh(ctx)
	}

	previous := f.stopLocked()
	f.gen++
	gen := f.gen
	f.active = true
	f.scope = scope
	f.clearLocked()
	seq := f.beginLoadLocked()
	genCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f.cancel = cancel
	observers := f.observers
	f.mu.Unlock()

	f.closeSubscription(previous)
	notify(observers, FeedChange[T]{Kind: FeedReset})

	sub, err := f.subscriber.Subscribe(genCtx, f.source.Collection(), f.handler(genCtx, gen, scope))
	if err != nil {
		f.logger.WarnContext(ctx, "open subscription failed, retrying in background", "error", err)
		go f.resubscribe(genCtx, gen, scope)
	} else if !f.attach(gen, sub) {
		return nil
	}

	return f.load(ctx, gen, seq, scope)
}

// Refresh reloads the snapshot for the active scope. On failure the current
// projection is kept and the error wraps ErrDependencyUnavailable.
func (f *Feed[S, T]) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrFeedInactive, f.name)
	}
	gen := f.gen
	scope := f.scope
	seq := f.beginLoadLocked()
	f.mu.Unlock()

	return f.load(ctx, gen, seq, scope)
}

// Deactivate closes the subscription. Events still in flight are dropped.
// The last projection stays readable.
func (f *Feed[S, T]) Deactivate() {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return
	}
	previous := f.stopLocked()
	f.gen++
	f.active = false
	f.loading = false
	f.pending = nil
	f.mu.Unlock()

	f.closeSubscription(previous)
}

// Merge applies a locally produced record, e.g. the result of a remote insert.
func (f *Feed[S, T]) Merge(item T) {
	f.applyLocal(feedMerge, item)
}

// Remove drops a record from the projection by its identity.
func (f *Feed[S, T]) Remove(item T) {
	f.applyLocal(feedRemove, item)
}

func (f *Feed[S, T]) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *Feed[S, T]) Scope() (S, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scope, f.active
}

// Version increases on every projection change.
func (f *Feed[S, T]) Version() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

// Items returns the projection in source order.
func (f *Feed[S, T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, len(f.ordered))
	copy(out, f.ordered)
	return out
}

func (f *Feed[S, T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *Feed[S, T]) Contains(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[key]
	return ok
}

func (f *Feed[S, T]) handler(ctx context.Context, gen uint64, scope S) realtime.Handler {
	return func(event realtime.ChangeEvent) {
		if event.Operation == realtime.OperationResync {
			go f.resync(ctx, gen, scope)
			return
		}

		action, item, err := f.source.Classify(scope, event)
		if err != nil {
			f.logger.Warn("discard malformed change event",
				"operation", string(event.Operation),
				"error", err,
			)
			return
		}
		if action == feedIgnore {
			return
		}

		f.mu.Lock()
		if !f.active || f.gen != gen {
			f.mu.Unlock()
			return
		}
		change, changed := f.applyLocked(action, item)
		if f.loading {
			f.pending = append(f.pending, pendingChange[T]{action: action, item: item})
		}
		observers := f.observers
		f.mu.Unlock()

		if changed {
			change.Live = true
			notify(observers, change)
		}
	}
}

func (f *Feed[S, T]) applyLocal(action feedAction, item T) {
	f.mu.Lock()
	if !f.active {
		f.mu.Unlock()
		return
	}
	change, changed := f.applyLocked(action, item)
	if f.loading {
		f.pending = append(f.pending, pendingChange[T]{action: action, item: item})
	}
	observers := f.observers
	f.mu.Unlock()

	if changed {
		notify(observers, change)
	}
}

func (f *Feed[S, T]) load(ctx context.Context, gen, seq uint64, scope S) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.Feed.load")
	defer span.End()

	items, err := f.source.Snapshot(ctx, scope)

	f.mu.Lock()
	if !f.active || f.gen != gen || f.loadSeq != seq {
		f.mu.Unlock()
		f.logger.DebugContext(ctx, "drop superseded snapshot")
		return nil
	}
	f.loading = false
	pending := f.pending
	f.pending = nil
	if err != nil {
		f.mu.Unlock()
		return fmt.Errorf("%w: load %s snapshot: %v", ErrDependencyUnavailable, f.name, err)
	}

	f.items = make(map[string]T, len(items)+len(pending))
	for _, item := range items {
		f.items[f.source.Key(item)] = item
	}
	for _, change := range pending {
		key := f.source.Key(change.item)
		switch change.action {
		case feedMerge:
			if _, ok := f.items[key]; !ok {
				f.items[key] = change.item
			}
		case feedReplace:
			f.items[key] = change.item
		case feedRemove:
			delete(f.items, key)
		}
	}
	f.reorderLocked()
	observers := f.observers
	f.mu.Unlock()

	notify(observers, FeedChange[T]{Kind: FeedReset})
	return nil
}

func (f *Feed[S, T]) resync(ctx context.Context, gen uint64, scope S) {
	f.mu.Lock()
	if !f.active || f.gen != gen {
		f.mu.Unlock()
		return
	}
	seq := f.beginLoadLocked()
	f.mu.Unlock()

	f.logger.Info("resync after transport reconnect")
	if err := f.load(ctx, gen, seq, scope); err != nil {
		f.logger.Warn("resync snapshot failed", "error", err)
	}
}

func (f *Feed[S, T]) resubscribe(ctx context.Context, gen uint64, scope S) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retry.Initial
	policy.MaxInterval = f.retry.MaxInterval

	open := func() (realtime.Subscription, error) {
		if !f.current(gen) {
			return nil, backoff.Permanent(errFeedSuperseded)
		}
		return f.subscriber.Subscribe(ctx, f.source.Collection(), f.handler(ctx, gen, scope))
	}

	sub, err := backoff.Retry(ctx, open,
		backoff.WithBackOff(policy),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Warn("open subscription failed", "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		return
	}
	if !f.attach(gen, sub) {
		return
	}

	f.mu.Lock()
	if !f.active || f.gen != gen {
		f.mu.Unlock()
		return
	}
	seq := f.beginLoadLocked()
	f.mu.Unlock()

	f.logger.Info("subscription reopened")
	if err := f.load(ctx, gen, seq, scope); err != nil {
		f.logger.Warn("snapshot after resubscribe failed", "error", err)
	}
}

// attach records sub as the live subscription of gen, closing it when gen is stale.
func (f *Feed[S, T]) attach(gen uint64, sub realtime.Subscription) bool {
	f.mu.Lock()
	if !f.active || f.gen != gen {
		f.mu.Unlock()
		f.closeSubscription(sub)
		return false
	}
	f.sub = sub
	f.mu.Unlock()
	return true
}

func (f *Feed[S, T]) current(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active && f.gen == gen
}

func (f *Feed[S, T]) stopLocked() realtime.Subscription {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	sub := f.sub
	f.sub = nil
	return sub
}

func (f *Feed[S, T]) clearLocked() {
	f.items = make(map[string]T)
	f.ordered = nil
	f.version++
}

func (f *Feed[S, T]) beginLoadLocked() uint64 {
	f.loadSeq++
	f.loading = true
	f.pending = nil
	return f.loadSeq
}

func (f *Feed[S, T]) applyLocked(action feedAction, item T) (FeedChange[T], bool) {
	key := f.source.Key(item)
	_, exists := f.items[key]

	switch action {
	case feedMerge:
		if exists {
			return FeedChange[T]{}, false
		}
		f.items[key] = item
		f.reorderLocked()
		return FeedChange[T]{Kind: FeedInserted, Item: item}, true
	case feedReplace:
		f.items[key] = item
		f.reorderLocked()
		if exists {
			return FeedChange[T]{Kind: FeedUpdated, Item: item}, true
		}
		return FeedChange[T]{Kind: FeedInserted, Item: item}, true
	case feedRemove:
		if !exists {
			return FeedChange[T]{}, false
		}
		delete(f.items, key)
		f.reorderLocked()
		return FeedChange[T]{Kind: FeedRemoved, Item: item}, true
	}
	return FeedChange[T]{}, false
}

func (f *Feed[S, T]) reorderLocked() {
	ordered := make([]T, 0, len(f.items))
	for _, item := range f.items {
		ordered = append(ordered, item)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if f.source.Less(ordered[i], ordered[j]) {
			return true
		}
		if f.source.Less(ordered[j], ordered[i]) {
			return false
		}
		return f.source.Key(ordered[i]) < f.source.Key(ordered[j])
	})
	f.ordered = ordered
	f.version++
}

func (f *Feed[S, T]) closeSubscription(sub realtime.Subscription) {
	if sub == nil {
		return
	}
	if err := sub.Close(); err != nil {
		f.logger.Warn("close subscription failed", "error", err)
	}
}

func notify[T any](observers []func(FeedChange[T]), change FeedChange[T]) {
	for _, fn := range observers {
		fn(change)
	}
}
