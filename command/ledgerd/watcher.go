// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/ledgerclient/fault"
)

const (
	defaultSettleTime = 500 * time.Millisecond
)

// reloads the pool after the genesis file changes
//
// the directory is watched so that a file replaced by rename is
// still seen, changes are applied once the file has been quiet for
// the settle time
type genesisWatcher struct {
	log      *logger.L
	fileName string
	reload   func() error
	settle   time.Duration
	watcher  *fsnotify.Watcher
}

func newGenesisWatcher(log *logger.L, fileName string, settle time.Duration, reload func() error) (*genesisWatcher, error) {
	fileName, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}
	if _, err := os.Stat(fileName); nil != err {
		log.Errorf("genesis file: %q  error: %s", fileName, err)
		return nil, fault.ErrCannotOpenGenesisFile
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(fileName)); nil != err {
		watcher.Close()
		return nil, err
	}

	return &genesisWatcher{
		log:      log,
		fileName: fileName,
		reload:   reload,
		settle:   settle,
		watcher:  watcher,
	}, nil
}

func (w *genesisWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	defer w.watcher.Close()

	w.log.Infof("watching: %q", w.fileName)

	var settled <-chan time.Time

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.fileName {
				continue
			}
			w.log.Debugf("file event: %v", event)
			if event.Op&fsnotify.Remove == fsnotify.Remove {
				w.log.Warnf("genesis file removed: %q", w.fileName)
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) != 0 {
				settled = time.After(w.settle)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			w.log.Errorf("watcher error: %s", err)

		case <-settled:
			settled = nil
			if err := w.reload(); nil != err {
				w.log.Errorf("reload failed, keeping current pool: %s", err)
				continue
			}
			w.log.Info("reloaded")
		}
	}
	w.log.Info("stopped")
}
