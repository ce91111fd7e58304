package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// runWatch re-checks the given files whenever their containing
// directories report a change. Watching directories instead of the files
// themselves survives the rename-and-replace dance editors perform on
// save.
func runWatch(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: vesperc watch <file>...\n")
		os.Exit(1)
	}

	watched := make(map[string]bool, len(args))
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		watched[abs] = true
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	dirs := make(map[string]bool)
	for path := range watched {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "watch %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	for _, path := range args {
		checkFile(path)
	}
	fmt.Fprintf(os.Stderr, "watching %d file(s)\n", len(watched))

	// Editors emit bursts of events per save; debounce before
	// re-checking.
	var pending map[string]bool
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if pending == nil {
				pending = make(map[string]bool)
			}
			pending[abs] = true
			if timer == nil {
				timer = time.NewTimer(100 * time.Millisecond)
			} else {
				timer.Reset(100 * time.Millisecond)
			}
			fire = timer.C

		case <-fire:
			for path := range pending {
				fmt.Fprintf(os.Stderr, "-- %s\n", filepath.Base(path))
				checkFile(path)
			}
			pending = nil
			fire = nil

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}
}
