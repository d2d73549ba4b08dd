package probe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injdash/internal/models"
)

type fakePinger struct {
	mu    sync.Mutex
	up    map[string]bool
	calls map[string]int
	block chan struct{}
	panic bool
}

func newFakePinger(up ...string) *fakePinger {
	f := &fakePinger{up: map[string]bool{}, calls: map[string]int{}}
	for _, a := range up {
		f.up[a] = true
	}
	return f
}

func (f *fakePinger) Ping(ctx context.Context, addr string) error {
	f.mu.Lock()
	f.calls[addr]++
	block, shouldPanic, up := f.block, f.panic, f.up[addr]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if shouldPanic {
		panic("boom")
	}
	if !up {
		return errors.New("timeout")
	}
	return nil
}

func (f *fakePinger) count(addr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[addr]
}

func (f *fakePinger) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestProber(p Pinger) (*Prober, *fakeClock) {
	clk := &fakeClock{now: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)}
	return New(p, Options{Now: clk.Now}), clk
}

func TestCheckInvalidAddressNeverProbes(t *testing.T) {
	f := newFakePinger()
	p, _ := newTestProber(f)

	for _, a := range []string{"", "   ", "-c 100 10.0.0.1", "10.0.0.1; reboot", "host name", "--help"} {
		assert.False(t, p.Check(context.Background(), a), a)
	}
	assert.Zero(t, f.total())
}

func TestCheckCachesWithinTTL(t *testing.T) {
	f := newFakePinger("10.0.0.5")
	p, clk := newTestProber(f)
	ctx := context.Background()

	assert.True(t, p.Check(ctx, "10.0.0.5"))
	clk.Advance(59 * time.Second)
	assert.True(t, p.Check(ctx, " 10.0.0.5 "))
	assert.Equal(t, 1, f.count("10.0.0.5"))

	clk.Advance(time.Second)
	assert.True(t, p.Check(ctx, "10.0.0.5"))
	assert.Equal(t, 2, f.count("10.0.0.5"))
}

func TestCheckCachesUnreachable(t *testing.T) {
	f := newFakePinger()
	p, _ := newTestProber(f)
	ctx := context.Background()

	assert.False(t, p.Check(ctx, "10.0.0.9"))
	assert.False(t, p.Check(ctx, "10.0.0.9"))
	assert.Equal(t, 1, f.count("10.0.0.9"))
}

func TestCheckDoesNotCacheCancelledProbe(t *testing.T) {
	f := newFakePinger("10.0.0.5")
	p, _ := newTestProber(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Check(ctx, "10.0.0.5")

	assert.True(t, p.Check(context.Background(), "10.0.0.5"))
	assert.Equal(t, 2, f.count("10.0.0.5"))
}

func TestCheckPingerPanicIsUnreachable(t *testing.T) {
	f := newFakePinger("10.0.0.5")
	f.panic = true
	p, _ := newTestProber(f)

	assert.False(t, p.Check(context.Background(), "10.0.0.5"))
}

func TestCheckSharesConcurrentProbe(t *testing.T) {
	f := newFakePinger("10.0.0.7")
	f.block = make(chan struct{})
	p, _ := newTestProber(f)

	var wg sync.WaitGroup
	results := make([]bool, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Check(context.Background(), "10.0.0.7")
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(f.block)
	wg.Wait()

	for _, r := range results {
		assert.True(t, r)
	}
	assert.Equal(t, 1, f.count("10.0.0.7"))
}

func TestCheckAll(t *testing.T) {
	f := newFakePinger("10.0.0.1")
	p, _ := newTestProber(f)

	var progress []Progress
	res := p.CheckAll(context.Background(),
		[]string{"10.0.0.1", "", "10.0.0.2", "10.0.0.1", " 10.0.0.2"},
		func(pr Progress) { progress = append(progress, pr) })

	assert.Equal(t, Results{"10.0.0.1": true, "10.0.0.2": false}, res)
	require.Len(t, progress, 2)
	assert.Equal(t, Progress{Done: 1, Total: 2, Address: "10.0.0.1", Reachable: true}, progress[0])
	assert.Equal(t, Progress{Done: 2, Total: 2, Address: "10.0.0.2", Reachable: false}, progress[1])
	assert.Equal(t, 1, f.count("10.0.0.1"))
	assert.Equal(t, 1, f.count("10.0.0.2"))

	assert.Equal(t, Online, res.State("10.0.0.1"))
	assert.Equal(t, Offline, res.State("10.0.0.2"))
	assert.Equal(t, NotTested, res.State("10.0.0.3"))
	assert.Equal(t, NotTested, res.State(""))
}

func TestCheckAllStopsWhenCancelled(t *testing.T) {
	f := newFakePinger("10.0.0.1", "10.0.0.2")
	p, _ := newTestProber(f)
	ctx, cancel := context.WithCancel(context.Background())

	res := p.CheckAll(ctx, []string{"10.0.0.1", "10.0.0.2"}, func(Progress) { cancel() })

	assert.Equal(t, Results{"10.0.0.1": true}, res)
	assert.Zero(t, f.count("10.0.0.2"))
}

func TestCheckAllLeavesInterruptedAddressUntested(t *testing.T) {
	f := newFakePinger("10.0.0.1")
	f.block = make(chan struct{})
	p, _ := newTestProber(f)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var progress []Progress
	res := p.CheckAll(ctx, []string{"10.0.0.1", "10.0.0.2"}, func(pr Progress) { progress = append(progress, pr) })

	assert.Empty(t, res)
	assert.Empty(t, progress)
	assert.Equal(t, NotTested, res.State("10.0.0.1"))
	assert.Equal(t, 1, f.count("10.0.0.1"))
	assert.Zero(t, f.count("10.0.0.2"))
}

func TestAddresses(t *testing.T) {
	recs := []models.Equipment{
		{InjectorIP: "10.0.0.1", DoserIP: "10.0.1.1", CollectorIP: "10.0.2.1"},
		{InjectorIP: "10.0.0.2", DoserIP: "", CollectorIP: "10.0.2.1"},
	}
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.1.1", "10.0.2.1"}, Addresses(recs))
}

func TestResultsCount(t *testing.T) {
	on, off := Results{"a": true, "b": false, "c": false}.Count()
	assert.Equal(t, 1, on)
	assert.Equal(t, 2, off)
}

func TestNewPinger(t *testing.T) {
	p, err := NewPinger("exec", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &ExecPinger{}, p)

	p, err = NewPinger("icmp", "", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &ICMPPinger{}, p)

	_, err = NewPinger("snmp", "", time.Second)
	require.ErrorIs(t, err, ErrUnknownMethod)
}
