package display

import (
	"fmt"

	"github.com/zjrosen/keyzone/internal/log"
	"github.com/zjrosen/keyzone/internal/pubsub"
)

// OpKind names a Display primitive.
type OpKind string

const (
	OpClear  OpKind = "clear"
	OpColor  OpKind = "color"
	OpString OpKind = "string"
	OpChar   OpKind = "char"
)

// Op is one call made on a Display.
type Op struct {
	Kind  OpKind
	X, Y  int
	Line  int
	Char  byte
	Text  string
	Color Color
}

func (o Op) String() string {
	switch o.Kind {
	case OpClear:
		return "clear"
	case OpColor:
		return fmt.Sprintf("color %s", o.Color)
	case OpString:
		return fmt.Sprintf("string line=%d %q", o.Line, o.Text)
	case OpChar:
		return fmt.Sprintf("char (%d,%d) %q", o.X, o.Y, o.Char)
	default:
		return string(o.Kind)
	}
}

// Observed forwards every call to an inner Display and reports it: each op
// is published on the broker (when set) and logged at debug level.
type Observed struct {
	inner   Display
	broker  *pubsub.Broker[Op]
	onClear func()
	ops     int
	clears  int
}

// NewObserved wraps inner. broker may be nil.
func NewObserved(inner Display, broker *pubsub.Broker[Op]) *Observed {
	return &Observed{inner: inner, broker: broker}
}

// OnClear registers fn to run after each text zone clear.
func (o *Observed) OnClear(fn func()) {
	o.onClear = fn
}

// Ops returns how many display calls were forwarded.
func (o *Observed) Ops() int { return o.ops }

// Clears returns how many text zone clears were forwarded.
func (o *Observed) Clears() int { return o.clears }

func (o *Observed) ClearTextZone() {
	o.inner.ClearTextZone()
	o.clears++
	o.report(pubsub.ClearedEvent, Op{Kind: OpClear})
	if o.onClear != nil {
		o.onClear()
	}
}

func (o *Observed) SetTextColor(c Color) {
	o.inner.SetTextColor(c)
	o.report(pubsub.UpdatedEvent, Op{Kind: OpColor, Color: c})
}

func (o *Observed) DisplayStringAtLine(line int, text string) {
	o.inner.DisplayStringAtLine(line, text)
	o.report(pubsub.DrawnEvent, Op{Kind: OpString, Line: line, Text: text})
}

func (o *Observed) DisplayChar(x, y int, ch byte) {
	o.inner.DisplayChar(x, y, ch)
	o.report(pubsub.DrawnEvent, Op{Kind: OpChar, X: x, Y: y, Char: ch})
}

func (o *Observed) report(kind pubsub.EventType, op Op) {
	o.ops++
	log.Debug(log.CatDisplay, "display op", "op", op.String())
	if o.broker != nil {
		o.broker.Publish(kind, op)
	}
}
