package etcd

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"sync/atomic"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/courierkit/courier/destination"
	"github.com/courierkit/courier/log"
)

// DefaultPrefix is the key space destinations are registered under:
// {prefix}/{service}/{endpoint} -> endpoint.
const DefaultPrefix = "/courier/destinations"

// Provider resolves a service name to one of its registered endpoints,
// rotating between them, and follows registration changes through an
// etcd watch.
type Provider struct {
	client  *clientv3.Client
	service string
	prefix  string
	cancel  context.CancelFunc

	mu        sync.RWMutex
	instances map[string]string
	endpoints []string

	next uint64
}

var _ destination.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(p *Provider)

// WithPrefix replaces DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(p *Provider) {
		p.prefix = prefix
	}
}

// New loads the current endpoints of service and keeps following
// changes until Close.
func New(client *clientv3.Client, service string, opts ...Option) (*Provider, error) {
	if client == nil {
		panic("etcd: client must be non-nil")
	}
	if service == "" {
		return nil, fmt.Errorf("etcd: service must be non-empty")
	}
	p := &Provider{
		client:    client,
		service:   service,
		prefix:    DefaultPrefix,
		instances: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	if err := p.sync(ctx); err != nil {
		cancel()
		return nil, err
	}
	go p.watch(ctx)
	return p, nil
}

// Destination picks the next endpoint in rotation.
func (p *Provider) Destination(context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.endpoints) == 0 {
		return "", fmt.Errorf("etcd: no endpoints registered for service %s", p.service)
	}
	n := atomic.AddUint64(&p.next, 1)
	return p.endpoints[(n-1)%uint64(len(p.endpoints))], nil
}

// Close stops the watch. It does not close the etcd client.
func (p *Provider) Close() {
	p.cancel()
}

func (p *Provider) keyPrefix() string {
	return path.Join(p.prefix, p.service) + "/"
}

func (p *Provider) sync(ctx context.Context) error {
	resp, err := p.client.Get(ctx, p.keyPrefix(), clientv3.WithPrefix())
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instances = make(map[string]string, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		p.instances[string(kv.Key)] = string(kv.Value)
	}
	p.rebuild()
	return nil
}

func (p *Provider) watch(ctx context.Context) {
	ch := p.client.Watch(ctx, p.keyPrefix(), clientv3.WithPrefix())
	for resp := range ch {
		if err := resp.Err(); err != nil {
			log.Errorw("msg", "destination watch failed", "service", p.service, "err", err)
			continue
		}
		p.mu.Lock()
		for _, ev := range resp.Events {
			switch ev.Type {
			case clientv3.EventTypePut:
				p.instances[string(ev.Kv.Key)] = string(ev.Kv.Value)
			case clientv3.EventTypeDelete:
				delete(p.instances, string(ev.Kv.Key))
			}
		}
		p.rebuild()
		p.mu.Unlock()
	}
}

// rebuild refreshes the rotation snapshot. Callers hold mu.
func (p *Provider) rebuild() {
	endpoints := make([]string, 0, len(p.instances))
	for _, endpoint := range p.instances {
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)
	p.endpoints = endpoints
}

// Register publishes endpoint under service with a TTL lease renewed in
// the background until ctx is canceled, so a crashed process drops out
// of rotation once the lease expires.
func Register(ctx context.Context, client *clientv3.Client, service, endpoint string, ttl int64, opts ...Option) error {
	p := &Provider{prefix: DefaultPrefix, service: service}
	for _, opt := range opts {
		opt(p)
	}
	lease, err := client.Grant(ctx, ttl)
	if err != nil {
		return err
	}
	key := path.Join(p.prefix, service, endpoint)
	if _, err = client.Put(ctx, key, endpoint, clientv3.WithLease(lease.ID)); err != nil {
		return err
	}
	ch, err := client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}
	// drain renewals until the context ends
	go func() {
		for range ch {
		}
	}()
	return nil
}
