// Package network reports whether the device can reach the backend.
//
// A [Monitor] polls a [Checker] and publishes debounced online/offline
// transitions to its subscribers. The stock checkers combine a link-level
// test ([LinkChecker]) with an HTTP reachability probe ([ProbeChecker]).
package network

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/utils"
)

// Checker performs one connectivity observation. Implementations must not
// block longer than ctx allows; a failed check reports false.
type Checker interface {
	Check(ctx context.Context) bool
}

// CheckerFunc adapts a plain function to [Checker].
type CheckerFunc func(ctx context.Context) bool

func (f CheckerFunc) Check(ctx context.Context) bool {
	return f(ctx)
}

// LinkChecker is online when at least one non-loopback interface is up.
type LinkChecker struct {
	interfaces func() ([]net.Interface, error)
}

func NewLinkChecker() *LinkChecker {
	return &LinkChecker{interfaces: net.Interfaces}
}

func (l *LinkChecker) Check(_ context.Context) bool {
	ifaces, err := l.interfaces()
	if err != nil {
		return false
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 {
			return true
		}
	}
	return false
}

// ProbeChecker is online when a HEAD request to url gets any HTTP response.
// The status code is irrelevant: a 404 still proves the host is reachable.
type ProbeChecker struct {
	client *utils.HTTPClient
	url    string
}

func NewProbeChecker(url string, timeout time.Duration) *ProbeChecker {
	return &ProbeChecker{
		client: utils.NewHTTPClient("", timeout),
		url:    url,
	}
}

func (p *ProbeChecker) Check(ctx context.Context) bool {
	if p.url == "" {
		return false
	}

	_, err := p.client.R().SetContext(ctx).Head(p.url)
	return err == nil
}

// AllOf is online only when every checker is, evaluated in order.
func AllOf(checkers ...Checker) Checker {
	return CheckerFunc(func(ctx context.Context) bool {
		for _, c := range checkers {
			if !c.Check(ctx) {
				return false
			}
		}
		return true
	})
}

// StaticChecker reports whatever was last Set. Hosts that learn about
// connectivity from elsewhere drive the monitor through it.
type StaticChecker struct {
	online atomic.Bool
}

func NewStaticChecker(online bool) *StaticChecker {
	c := &StaticChecker{}
	c.online.Store(online)
	return c
}

func (s *StaticChecker) Set(online bool) {
	s.online.Store(online)
}

func (s *StaticChecker) Check(_ context.Context) bool {
	return s.online.Load()
}
