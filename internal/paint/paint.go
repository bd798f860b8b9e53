// Package paint implements the output-event vocabulary the content-collector
// pass produces and a LIFO event stack. The content-collector pass itself
// buffers events in its own per-nesting-level frames (internal/content)
// rather than in Stack.
package paint

import "github.com/MeKo-Christian/cdrimport/internal/path"

// Props is a bag of CSS-adjacent string properties (svg:, draw:, fo:,
// style: namespaces) describing one paint event, a string map rather than
// a typed struct per event:
// the set of keys in play differs per fill/line/text kind and a sink
// consumes them positionally by key, not by Go field name.
type Props map[string]string

// Stop is one gradient color stop.
type Stop struct {
	Offset float64
	Color  string // "#RRGGBB"
}

// Kind tags an Event's variant. Events are a tagged union rather than a
// polymorphic draw()-dispatch hierarchy, the same choice made for
// internal/path.Element and for the same reason: cheap to clone, trivially
// matched, and this module never needs to add event kinds a sink doesn't
// already know about.
type Kind int

const (
	KindSetStyle Kind = iota
	KindPath
	KindGraphicObject
	KindStartTextObject
	KindStartTextLine
	KindStartTextSpan
	KindInsertText
	KindEndTextSpan
	KindEndTextLine
	KindEndTextObject
	KindStartGroup
	KindEndGroup
	KindStartGraphics
	KindEndGraphics
)

// Event is one paint operation, addressable and cloneable, carrying only
// the fields its Kind uses.
type Event struct {
	Kind  Kind
	Props Props
	Stops []Stop
	Nodes []path.Node
	Bytes []byte
	Text  string
}

func SetStyle(props Props, stops []Stop) Event {
	return Event{Kind: KindSetStyle, Props: props, Stops: stops}
}

func Path(nodes []path.Node) Event {
	return Event{Kind: KindPath, Nodes: nodes}
}

func GraphicObject(props Props, data []byte) Event {
	return Event{Kind: KindGraphicObject, Props: props, Bytes: data}
}

func StartTextObject(props Props) Event { return Event{Kind: KindStartTextObject, Props: props} }
func StartTextLine(props Props) Event   { return Event{Kind: KindStartTextLine, Props: props} }
func StartTextSpan(props Props) Event   { return Event{Kind: KindStartTextSpan, Props: props} }
func InsertText(s string) Event         { return Event{Kind: KindInsertText, Text: s} }
func EndTextSpan() Event                { return Event{Kind: KindEndTextSpan} }
func EndTextLine() Event                { return Event{Kind: KindEndTextLine} }
func EndTextObject() Event              { return Event{Kind: KindEndTextObject} }
func StartGroup(props Props) Event      { return Event{Kind: KindStartGroup, Props: props} }
func EndGroup() Event                    { return Event{Kind: KindEndGroup} }

// StartGraphics/EndGraphics bracket one page's drawing surface.
// Unlike every other event, these are never buffered: the content-collector
// pass calls them directly on the sink around a page's reversed event list,
// since the LIFO reversal that inverts declaration order into
// back-to-front rendering must not also reverse the page bracket itself.
func StartGraphics(props Props) Event { return Event{Kind: KindStartGraphics, Props: props} }
func EndGraphics() Event              { return Event{Kind: KindEndGraphics} }

// Clone returns an independent copy of e.
func (e Event) Clone() Event {
	c := e
	if e.Props != nil {
		c.Props = make(Props, len(e.Props))
		for k, v := range e.Props {
			c.Props[k] = v
		}
	}
	if e.Stops != nil {
		c.Stops = append([]Stop(nil), e.Stops...)
	}
	if e.Nodes != nil {
		c.Nodes = append([]path.Node(nil), e.Nodes...)
	}
	if e.Bytes != nil {
		c.Bytes = append([]byte(nil), e.Bytes...)
	}
	return c
}

// Sink receives a fully ordered stream of paint events. A libwpg-style
// external collaborator (e.g. an SVG text serializer) implements this.
type Sink interface {
	SetStyle(props Props, stops []Stop)
	Path(nodes []path.Node)
	GraphicObject(props Props, data []byte)
	StartTextObject(props Props)
	StartTextLine(props Props)
	StartTextSpan(props Props)
	InsertText(s string)
	EndTextSpan()
	EndTextLine()
	EndTextObject()
	StartGroup(props Props)
	EndGroup()
	StartGraphics(props Props)
	EndGraphics()
}

// Draw dispatches e to sink.
func (e Event) Draw(sink Sink) {
	switch e.Kind {
	case KindSetStyle:
		sink.SetStyle(e.Props, e.Stops)
	case KindPath:
		sink.Path(e.Nodes)
	case KindGraphicObject:
		sink.GraphicObject(e.Props, e.Bytes)
	case KindStartTextObject:
		sink.StartTextObject(e.Props)
	case KindStartTextLine:
		sink.StartTextLine(e.Props)
	case KindStartTextSpan:
		sink.StartTextSpan(e.Props)
	case KindInsertText:
		sink.InsertText(e.Text)
	case KindEndTextSpan:
		sink.EndTextSpan()
	case KindEndTextLine:
		sink.EndTextLine()
	case KindEndTextObject:
		sink.EndTextObject()
	case KindStartGroup:
		sink.StartGroup(e.Props)
	case KindEndGroup:
		sink.EndGroup()
	case KindStartGraphics:
		sink.StartGraphics(e.Props)
	case KindEndGraphics:
		sink.EndGraphics()
	}
}

// Stack is a LIFO buffer of events: events pushed in document declaration
// order (front to back) are drained by Flush in reverse, so the
// last-declared primitive paints first. The content-collector pass does not
// use it; it keeps its own frames with the same reverse-order flush.
type Stack struct {
	events []Event
}

// Push appends e to the top of the stack.
func (s *Stack) Push(e Event) {
	s.events = append(s.events, e)
}

// Len reports how many events are buffered.
func (s *Stack) Len() int { return len(s.events) }

// Flush drains every buffered event into sink in reverse (LIFO) order and
// empties the stack.
func (s *Stack) Flush(sink Sink) {
	for i := len(s.events) - 1; i >= 0; i-- {
		s.events[i].Draw(sink)
	}
	s.events = s.events[:0]
}
