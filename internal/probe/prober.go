// Package probe answers "is this address reachable right now" for the
// equipment dashboard. Every failure mode collapses to "unreachable".
package probe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"injdash/internal/logs"
	"injdash/internal/models"
)

const (
	DefaultTimeout  = time.Second
	DefaultCacheTTL = 60 * time.Second

	// extra time granted to the pinger on top of its own timeout before the
	// context kills it
	killGrace = 500 * time.Millisecond
)

var ErrUnknownMethod = errors.New("unknown probe method")

// validAddress accepts IPv4/IPv6 literals (with zone) and host names. Anything
// else is never handed to a pinger.
var validAddress = regexp.MustCompile(`^[A-Za-z0-9._:%\-]+$`)

// Pinger sends one reachability probe. A nil error means the target answered.
type Pinger interface {
	Ping(ctx context.Context, address string) error
}

// NewPinger builds the pinger for a configured method ("exec" or "icmp").
func NewPinger(method, command string, timeout time.Duration) (Pinger, error) {
	switch method {
	case "", "exec":
		return NewExecPinger(command, timeout), nil
	case "icmp":
		return NewICMPPinger(timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

type Options struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	Now      func() time.Time
}

type Prober struct {
	pinger  Pinger
	timeout time.Duration
	cache   *resultCache
	flight  singleflight.Group
}

func New(p Pinger, opts Options) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	return &Prober{
		pinger:  p,
		timeout: opts.Timeout,
		cache:   newResultCache(opts.CacheTTL, opts.Now),
	}
}

// Valid reports whether address would be probed at all.
func Valid(address string) bool {
	a := strings.TrimSpace(address)
	return a != "" && !strings.HasPrefix(a, "-") && validAddress.MatchString(a)
}

// Check probes address once, or returns the cached answer if one younger than
// the cache TTL exists.
func (p *Prober) Check(ctx context.Context, address string) bool {
	addr := strings.TrimSpace(address)
	if !Valid(addr) {
		return false
	}
	if reachable, ok := p.cache.get(addr); ok {
		return reachable
	}

	v, _, _ := p.flight.Do(addr, func() (any, error) {
		if reachable, ok := p.cache.get(addr); ok {
			return reachable, nil
		}
		reachable := p.probe(ctx, addr)
		if ctx.Err() == nil {
			p.cache.put(addr, reachable)
		}
		return reachable, nil
	})
	return v.(bool)
}

func (p *Prober) probe(ctx context.Context, addr string) (reachable bool) {
	defer func() {
		if r := recover(); r != nil {
			logs.Logger.Errorf("probe %s: pinger panic: %v", addr, r)
			reachable = false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout+killGrace)
	defer cancel()

	start := time.Now()
	if err := p.pinger.Ping(ctx, addr); err != nil {
		logs.Logger.Debugf("probe %s: unreachable after %s: %v", addr, time.Since(start), err)
		return false
	}
	logs.Logger.Debugf("probe %s: reachable in %s", addr, time.Since(start))
	return true
}

// Progress is reported after every address of a batch.
type Progress struct {
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	Address   string `json:"address"`
	Reachable bool   `json:"reachable"`
}

// CheckAll probes every distinct non-empty address once, one after another.
// A cancelled ctx stops the batch; addresses not reached are left out of the
// result.
func (p *Prober) CheckAll(ctx context.Context, addresses []string, progress func(Progress)) Results {
	targets := distinct(addresses)
	res := make(Results, len(targets))
	for i, a := range targets {
		if ctx.Err() != nil {
			logs.Logger.Warnf("probe batch cancelled after %d/%d addresses", i, len(targets))
			break
		}
		ok := p.Check(ctx, a)
		if ctx.Err() != nil {
			// an interrupted check says nothing about the target
			logs.Logger.Warnf("probe batch cancelled during %s after %d/%d addresses", a, i, len(targets))
			break
		}
		res[a] = ok
		if progress != nil {
			progress(Progress{Done: i + 1, Total: len(targets), Address: a, Reachable: ok})
		}
	}
	return res
}

// Addresses collects the probe targets of all records: every injector address,
// then every doser address, then every collector address.
func Addresses(records []models.Equipment) []string {
	var out []string
	for _, col := range models.AddressColumns {
		for _, r := range records {
			out = append(out, r.Get(col))
		}
	}
	return distinct(out)
}

func distinct(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
