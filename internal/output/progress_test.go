package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func fixedWidth(n int) ProgressOption {
	return WithWidthFunc(func() int { return n })
}

func TestRenderBarWidthIsExact(t *testing.T) {
	t.Parallel()

	const total, width = 1000, 40
	for written := int64(0); written <= total; written += 37 {
		bar := RenderBar(written, total, Fraction(written, total), width)
		require.Equal(t, width, utf8.RuneCountInString(bar), written)
	}
	bar := RenderBar(total, total, 1, width)
	require.Equal(t, strings.Repeat("⣿", width), bar)
}

func TestRenderBarEmptyAndPartial(t *testing.T) {
	t.Parallel()

	require.Equal(t, "⡀"+strings.Repeat("-", 9), RenderBar(0, 100, 0, 10))

	// chunk = 100/10 = 10; 5 bytes into the first chunk is level 4 of 8.
	require.Equal(t, "⡏"+strings.Repeat("-", 9), RenderBar(5, 100, Fraction(5, 100), 10))

	// 55 bytes: five cells filled, the last of them is the partial glyph.
	require.Equal(t, "⣿⣿⣿⣿⡏-----", RenderBar(55, 100, Fraction(55, 100), 10))

	require.Empty(t, RenderBar(10, 100, 0.1, 0))
}

func TestFractionWithoutTotal(t *testing.T) {
	t.Parallel()

	require.Zero(t, Fraction(500, 0))
	require.Zero(t, Percent(Fraction(500, 0)))
	require.Equal(t, 1.0, Fraction(20, 10))
	require.Equal(t, 50, Percent(Fraction(1, 2)))
	require.Equal(t, strings.Repeat("⡀", 1)+strings.Repeat("-", 19), RenderBar(500, 0, 0, 20))
}

func TestProgressCountsWritesMonotonically(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	var file bytes.Buffer
	p := NewProgress(&out, "discord.tar.gz", 1000, fixedWidth(120), WithResizeSignal(make(chan os.Signal)))
	p.Start()
	defer p.Stop()

	w := p.Writer(&file)
	last := 0
	for i := 0; i < 10; i++ {
		_, err := w.Write(bytes.Repeat([]byte{'x'}, 100))
		require.NoError(t, err)
		pct := p.Percent()
		require.GreaterOrEqual(t, pct, last)
		last = pct
	}
	require.Equal(t, 100, last)
	require.Equal(t, int64(1000), p.Written())
	require.Equal(t, 1000, file.Len())

	p.Finish()
	require.Contains(t, out.String(), "Downloading discord.tar.gz (1000 bytes)\n")
	require.True(t, strings.HasSuffix(out.String(), "Downloaded discord.tar.gz (1000 bytes)\n\n"))
}

func TestProgressUnknownTotalStaysAtZero(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	p := NewProgress(&out, "x", 0, fixedWidth(120), WithTickInterval(time.Millisecond), WithResizeSignal(make(chan os.Signal)))
	p.Start()

	_, err := io.Copy(p.Writer(io.Discard), strings.NewReader(strings.Repeat("y", 4096)))
	require.NoError(t, err)
	require.Zero(t, p.Percent())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "] 0% (4096/0)")
	}, time.Second, time.Millisecond)

	p.Finish()
	require.Contains(t, out.String(), "Downloaded x (0 bytes)\n\n")
}

func TestProgressNarrowTerminalFallsBackToText(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	p := NewProgress(&out, "discord-stable.tar.gz", 100, fixedWidth(30), WithTickInterval(time.Millisecond), WithResizeSignal(make(chan os.Signal)))
	p.Start()
	defer p.Stop()

	_, err := p.Writer(io.Discard).Write(make([]byte, 50))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Downloading discord-stable.tar.gz... 50% (50/100)")
	}, time.Second, time.Millisecond)
}

func TestProgressResizeRecomputesLayout(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	var mu sync.Mutex
	cols := 30
	widthFn := func() int {
		mu.Lock()
		defer mu.Unlock()
		return cols
	}
	resize := make(chan os.Signal, 1)
	p := NewProgress(&out, "f", 100, WithWidthFunc(widthFn), WithTickInterval(time.Millisecond), WithResizeSignal(resize))
	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Downloading f... 0% (0/100)")
	}, time.Second, time.Millisecond)

	mu.Lock()
	cols = 100
	mu.Unlock()
	resize <- syscall.SIGWINCH

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "-] 0% (0/100)")
	}, time.Second, time.Millisecond)
}

func TestProgressStopIsIdempotentAndHaltsRedraws(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	p := NewProgress(&out, "f", 10, fixedWidth(80), WithTickInterval(time.Millisecond), WithResizeSignal(make(chan os.Signal)))
	p.Start()
	time.Sleep(10 * time.Millisecond)
	p.Stop()
	p.Stop()

	snapshot := out.String()
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, snapshot, out.String())

	// Starting after teardown is a no-op.
	p.Start()
	require.Equal(t, snapshot, out.String())
}

func TestProgressStopWithoutStart(t *testing.T) {
	t.Parallel()

	p := NewProgress(io.Discard, "f", 10)
	p.Stop()
	p.Finish()
}
