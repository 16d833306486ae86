package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

const (
	UpdatesPerSecond = 333
	// below this many cells the bar is replaced by a plain percentage line
	minBarWidth = 10
)

// Progress renders a single-line download bar for one response body.
// Byte counts arrive through the writer returned by Writer; a ticker redraws
// the line and SIGWINCH recomputes the layout.
type Progress struct {
	mu       sync.Mutex
	out      io.Writer
	label    string
	total    int64
	written  int64
	fraction float64
	width    int
	widthFn  func() int
	tick     time.Duration

	resizeCh <-chan os.Signal
	sigCh    chan os.Signal
	doneCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
	stopped  bool
	stopOnce sync.Once
}

type ProgressOption func(*Progress)

// WithWidthFunc replaces the terminal column lookup.
func WithWidthFunc(fn func() int) ProgressOption {
	return func(p *Progress) { p.widthFn = fn }
}

// WithResizeSignal supplies the resize notifications instead of subscribing
// to SIGWINCH.
func WithResizeSignal(ch <-chan os.Signal) ProgressOption {
	return func(p *Progress) { p.resizeCh = ch }
}

func WithTickInterval(d time.Duration) ProgressOption {
	return func(p *Progress) { p.tick = d }
}

func NewProgress(out io.Writer, label string, total int64, opts ...ProgressOption) *Progress {
	p := &Progress{
		out:     out,
		label:   label,
		total:   max(total, 0),
		widthFn: getTerminalWidth,
		tick:    time.Second / UpdatesPerSecond,
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Progress) Start() {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.width = p.barWidth()
	fmt.Fprintf(p.out, "Downloading %s (%d bytes)\n", p.label, p.total)
	fmt.Fprint(p.out, p.prefix())
	if p.resizeCh == nil {
		p.sigCh = make(chan os.Signal, 1)
		signal.Notify(p.sigCh, syscall.SIGWINCH)
		p.resizeCh = p.sigCh
	}
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop()
}

// Stop releases the ticker and the resize subscription. It is safe to call
// more than once and from any exit path.
func (p *Progress) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.doneCh)
		p.wg.Wait()
		if p.sigCh != nil {
			signal.Stop(p.sigCh)
		}
	})
}

// Finish stops rendering and prints the summary line.
func (p *Progress) Finish() {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, cursorHome+clearLine)
	fmt.Fprintf(p.out, "Downloaded %s (%d bytes)\n\n", p.label, p.total)
}

// Writer wraps dst so that every byte it accepts is counted.
func (p *Progress) Writer(dst io.Writer) io.Writer {
	return &countingWriter{dst: dst, progress: p}
}

func (p *Progress) Written() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

func (p *Progress) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Percent(p.fraction)
}

func (p *Progress) loop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-p.doneCh:
			return
		case <-p.resizeCh:
			p.resize()
		case <-ticker.C:
			p.redraw()
		}
	}
}

func (p *Progress) add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written += n
	p.fraction = Fraction(p.written, p.total)
}

func (p *Progress) resize() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = p.barWidth()
	fmt.Fprint(p.out, cursorHome+clearLine+p.prefix())
}

func (p *Progress) redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	pct := Percent(p.fraction)
	if p.width < minBarWidth {
		fmt.Fprintf(p.out, "%s%sDownloading %s... %d%% (%d/%d)", cursorHome, clearLine, p.label, pct, p.written, p.total)
		return
	}
	column := textWidth(p.prefix()) + 1
	bar := RenderBar(p.written, p.total, p.fraction, p.width)
	fmt.Fprintf(p.out, "\033[%dG%s] %d%% (%d/%d)", column, bar, pct, p.written, p.total)
}

func (p *Progress) prefix() string {
	return fmt.Sprintf("Downloading %s... [", p.label)
}

// barWidth is the number of bar cells left once the label, brackets,
// percentage and both byte counts are accounted for.
func (p *Progress) barWidth() int {
	totalText := strconv.FormatInt(p.total, 10) + " "
	label := textWidth(fmt.Sprintf("Downloading %s... ", p.label))
	return p.widthFn() - label - (3 + 2*len(totalText) + len(" 100%"))
}

// Fraction is written/total clamped to [0, 1]; an unknown total yields 0.
func Fraction(written, total int64) float64 {
	if total <= 0 || written <= 0 {
		return 0
	}
	return min(float64(written)/float64(total), 1)
}

func Percent(fraction float64) int {
	return int(math.Round(fraction * 100))
}

// RenderBar draws exactly width cells: full glyphs for the completed part, one
// partial glyph for the position inside the current chunk, then '-' filler.
func RenderBar(written, total int64, fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(fraction*float64(width)), 0), width)
	full := max(filled-1, 0)
	var b strings.Builder
	b.WriteString(strings.Repeat(progressGlyphs[len(progressGlyphs)-1], full))
	b.WriteString(partialGlyph(written, total, width))
	b.WriteString(strings.Repeat("-", width-full-1))
	return b.String()
}

func partialGlyph(written, total int64, width int) string {
	last := len(progressGlyphs) - 1
	if total > 0 && written >= total {
		return progressGlyphs[last]
	}
	chunk := total / int64(width)
	if chunk <= 0 || written <= 0 {
		return progressGlyphs[0]
	}
	level := int(float64(written%chunk) / float64(chunk) * float64(len(progressGlyphs)))
	return progressGlyphs[min(level, last)]
}

type countingWriter struct {
	dst      io.Writer
	progress *Progress
}

func (w *countingWriter) Write(b []byte) (int, error) {
	n, err := w.dst.Write(b)
	if n > 0 {
		w.progress.add(int64(n))
	}
	return n, err
}
