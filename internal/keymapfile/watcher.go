package keymapfile

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// ReloadFunc receives the reparsed keymap file after it changes on disk, or
// the error that reparsing produced.
type ReloadFunc func(f *File, err error)

// Watcher watches one keymap file and notifies subscribers when it changes,
// so the host can rebind at runtime without restarting.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	path   string
	subs   map[string]ReloadFunc
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Watch starts watching path. The containing directory is watched rather
// than the file itself, since most editors replace files on save.
func Watch(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating keymap watcher: %w", err)
	}

	path = filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		fsw:  fsw,
		path: path,
		subs: make(map[string]ReloadFunc),
		done: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Subscribe registers fn for reload notifications and returns a token for
// Unsubscribe.
func (w *Watcher) Subscribe(fn ReloadFunc) string {
	token := uuid.New().String()

	w.mu.Lock()
	w.subs[token] = fn
	w.mu.Unlock()
	return token
}

// Unsubscribe removes a subscription.
func (w *Watcher) Unsubscribe(token string) {
	w.mu.Lock()
	delete(w.subs, token)
	w.mu.Unlock()
}

// Close stops the watcher and waits for the notification loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			f, err := Load(w.path)
			w.notify(f, err)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.notify(nil, err)
		}
	}
}

func (w *Watcher) notify(f *File, err error) {
	w.mu.Lock()
	subs := make([]ReloadFunc, 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		fn(f, err)
	}
}
