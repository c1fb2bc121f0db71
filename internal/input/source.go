package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zjrosen/keyzone/internal/keyboard"
	"github.com/zjrosen/keyzone/internal/log"
	"github.com/zjrosen/keyzone/internal/watcher"
)

// Source yields keyboard codes one at a time. Next returns io.EOF when the
// stream is exhausted and ctx.Err() once ctx is done.
type Source interface {
	Next(ctx context.Context) (byte, error)
}

// Options controls byte translation for stream sources.
type Options struct {
	Keys         keyboard.Keys
	MapBackspace bool
}

// ReaderSource reads codes from an io.Reader.
type ReaderSource struct {
	r    *bufio.Reader
	opts Options
}

// NewReaderSource buffers r.
func NewReaderSource(r io.Reader, opts Options) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r), opts: opts}
}

// Next returns the next code from the reader.
func (s *ReaderSource) Next(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	return Normalize(b, s.opts.Keys, s.opts.MapBackspace), nil
}

// FollowSource reads a file from the start and then waits for bytes
// appended to it, like tail -f. It only ends when ctx is done or Close is
// called.
type FollowSource struct {
	file    *os.File
	r       *bufio.Reader
	watcher *watcher.Watcher
	changes <-chan struct{}
	opts    Options
}

// NewFollowSource opens path and starts watching it. debounce coalesces
// bursts of writes; zero uses the watcher default.
func NewFollowSource(path string, debounce time.Duration, opts Options) (*FollowSource, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is the user's replay file
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	cfg := watcher.DefaultConfig(path)
	if debounce > 0 {
		cfg.DebounceDur = debounce
	}
	w, err := watcher.New(cfg)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		_ = f.Close()
		return nil, err
	}

	return &FollowSource{
		file:    f,
		r:       bufio.NewReader(f),
		watcher: w,
		changes: changes,
		opts:    opts,
	}, nil
}

// Next returns the next code, blocking at end of file until more is written.
func (s *FollowSource) Next(ctx context.Context) (byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		b, err := s.r.ReadByte()
		if err == nil {
			return Normalize(b, s.opts.Keys, s.opts.MapBackspace), nil
		}
		if !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("reading followed file: %w", err)
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case _, ok := <-s.changes:
			if !ok {
				return 0, io.EOF
			}
			log.Debug(log.CatInput, "followed file changed", "path", s.file.Name())
		}
	}
}

// Close stops watching and closes the file.
func (s *FollowSource) Close() error {
	return errors.Join(s.watcher.Stop(), s.file.Close())
}
