package frame

// Scheduler invokes a callback once, before the next repaint.
type Scheduler interface {
	RequestFrame(fn func())
}

// TextSink receives a formatted readout.
type TextSink interface {
	SetText(s string)
}

// Label is a TextSink that keeps the last text for the host to draw.
type Label struct {
	text string
}

func (l *Label) SetText(s string) { l.text = s }
func (l *Label) Text() string     { return l.text }

// Pending is a Scheduler for hosts that own their loop: the callback
// requested during one frame is run by the host at the next one.
type Pending struct {
	fn func()
}

func (p *Pending) RequestFrame(fn func()) { p.fn = fn }

// Armed reports whether a callback is waiting.
func (p *Pending) Armed() bool { return p.fn != nil }

// Run fires the waiting callback, if any. The callback may re-arm.
func (p *Pending) Run() bool {
	fn := p.fn
	if fn == nil {
		return false
	}
	p.fn = nil
	fn()
	return true
}
