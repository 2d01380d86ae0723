package quiz

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Table is a bit set naming the tables a write touched or a query reads.
type Table uint8

const (
	TableQuizzes Table = 1 << iota
	TableQuestions
	TableAnswers
)

type watcher struct {
	tables Table
	wake   chan struct{}
}

// changeFeed fans table-change signals out to live queries. Signals coalesce:
// a watcher that has not consumed its last wake-up is not queued again.
type changeFeed struct {
	mu       sync.Mutex
	nextID   int
	watchers map[int]*watcher
}

func newChangeFeed() *changeFeed {
	return &changeFeed{watchers: make(map[int]*watcher)}
}

func (f *changeFeed) subscribe(tables Table) (int, <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	w := &watcher{tables: tables, wake: make(chan struct{}, 1)}
	f.watchers[f.nextID] = w
	return f.nextID, w.wake
}

func (f *changeFeed) unsubscribe(id int) {
	f.mu.Lock()
	delete(f.watchers, id)
	f.mu.Unlock()
}

func (f *changeFeed) publish(tables Table) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, w := range f.watchers {
		if w.tables&tables == 0 {
			continue
		}
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
}

func (f *changeFeed) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}

// Live is a subscription to a query. Updates yields the current result first
// and then a fresh one after every relevant write, until Close is called or
// the context passed to the Watch method ends. A snapshot still waiting for
// its reader is replaced when a newer write is signalled.
type Live[T any] struct {
	updates chan T
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once

	mu  sync.Mutex
	err error
}

func (l *Live[T]) Updates() <-chan T {
	return l.updates
}

// Close stops delivery and waits for the query goroutine to exit.
func (l *Live[T]) Close() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// Err reports the query failure that ended the stream, if any.
func (l *Live[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Live[T]) fail(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

func watch[T any](ctx context.Context, feed *changeFeed, logger *slog.Logger, tables Table, fetch func(context.Context) (T, error)) *Live[T] {
	live := &Live[T]{
		updates: make(chan T),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	// Subscribe before the first read so no write between the two is missed.
	id, wake := feed.subscribe(tables)

	go func() {
		defer close(live.done)
		defer close(live.updates)
		defer feed.unsubscribe(id)

	refresh:
		for {
			snapshot, err := fetch(ctx)
			if err != nil {
				if ctx.Err() == nil || !errors.Is(err, ctx.Err()) {
					logger.Error("live query failed", "error", err)
					live.fail(err)
				}
				return
			}

			select {
			case live.updates <- snapshot:
			case <-wake:
				continue refresh
			case <-live.stop:
				return
			case <-ctx.Done():
				return
			}

			select {
			case <-wake:
			case <-live.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return live
}
