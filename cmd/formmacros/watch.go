package main

import (
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// templateWatcher drops cached templates when their files change on disk.
type templateWatcher struct {
	root       string
	watcher    *fsnotify.Watcher
	invalidate func(names ...string)
	logger     log.FieldLogger
	done       chan struct{}
}

func watchTemplates(root string, logger log.FieldLogger, invalidate func(names ...string)) (*templateWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	w := &templateWatcher{
		root:       root,
		watcher:    watcher,
		invalidate: invalidate,
		logger:     logger,
		done:       make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *templateWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.changed(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("template watcher error")
		}
	}
}

func (w *templateWatcher) changed(path string) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		w.invalidate()
		return
	}
	name := filepath.ToSlash(rel)
	w.invalidate(name)
	w.logger.WithField("template", name).Info("template changed")
}

func (w *templateWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
