// Package session drives the cursor manager headlessly from a byte source
// and reports what happened.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/keyzone/internal/display"
	"github.com/zjrosen/keyzone/internal/input"
	"github.com/zjrosen/keyzone/internal/keyboard"
	"github.com/zjrosen/keyzone/internal/log"
	"github.com/zjrosen/keyzone/internal/pubsub"
	"github.com/zjrosen/keyzone/internal/tracing"
)

// Stats summarizes a session.
type Stats struct {
	ID       string
	Bytes    int
	Glyphs   int
	Newlines int
	Deletes  int
	Clears   int
	Cursor   keyboard.Position
}

// Session owns a framebuffer-backed Manager.
type Session struct {
	id       string
	manager  *keyboard.Manager
	screen   *display.Framebuffer
	observed *display.Observed
	tracer   trace.Tracer
}

// Options configures a Session. Tracer and Broker are optional.
type Options struct {
	Keyboard keyboard.Config
	Tracer   trace.Tracer
	Broker   *pubsub.Broker[display.Op]
}

// New builds a session with a fresh framebuffer and initializes the text
// zone on it.
func New(opts Options) (*Session, error) {
	screen := display.NewFramebuffer()
	observed := display.NewObserved(screen, opts.Broker)

	manager, err := keyboard.New(opts.Keyboard, observed)
	if err != nil {
		return nil, err
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}

	s := &Session{
		id:       uuid.NewString(),
		manager:  manager,
		screen:   screen,
		observed: observed,
		tracer:   tracer,
	}
	manager.Init()
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Screen returns the framebuffer the session draws on.
func (s *Session) Screen() *display.Framebuffer { return s.screen }

// Manager returns the cursor manager.
func (s *Session) Manager() *keyboard.Manager { return s.manager }

// Run feeds every code from src to the manager until src returns io.EOF.
// Any other error, including context cancellation, is returned alongside
// the stats gathered so far.
func (s *Session) Run(ctx context.Context, name string, src input.Source) (Stats, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanSession, trace.WithAttributes(
		attribute.String(tracing.AttrSessionID, s.id),
		attribute.String(tracing.AttrSource, name),
	))
	defer span.End()

	clearsBefore := s.observed.Clears()
	s.observed.OnClear(func() {
		span.AddEvent(tracing.EventScreenClear)
	})
	defer s.observed.OnClear(nil)

	log.Info(log.CatSession, "session started", "id", s.id, "source", name)

	keys := s.manager.Config().Keys
	stats := Stats{ID: s.id}
	var runErr error
	for {
		code, err := src.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				runErr = fmt.Errorf("reading %s: %w", name, err)
			}
			break
		}

		s.manager.Process(code)
		stats.Bytes++
		switch code {
		case keys.Newline:
			stats.Newlines++
		case keys.Delete:
			stats.Deletes++
		default:
			stats.Glyphs++
		}
	}

	stats.Clears = s.observed.Clears() - clearsBefore
	stats.Cursor = s.manager.Cursor()

	span.SetAttributes(
		attribute.Int(tracing.AttrBytes, stats.Bytes),
		attribute.Int(tracing.AttrGlyphs, stats.Glyphs),
		attribute.Int(tracing.AttrNewlines, stats.Newlines),
		attribute.Int(tracing.AttrDeletes, stats.Deletes),
		attribute.Int(tracing.AttrClears, stats.Clears),
		attribute.Int(tracing.AttrCursorX, stats.Cursor.X),
		attribute.Int(tracing.AttrCursorY, stats.Cursor.Y),
	)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		log.ErrorErr(log.CatSession, "session stopped", runErr, "id", s.id, "bytes", stats.Bytes)
		return stats, runErr
	}
	span.SetStatus(codes.Ok, "")
	log.Info(log.CatSession, "session finished", "id", s.id, "bytes", stats.Bytes, "clears", stats.Clears)
	return stats, nil
}

// Dump renders the session's screen as plain text.
func (s *Session) Dump() string {
	return s.screen.String(s.manager.Config().Geometry.Grid())
}
