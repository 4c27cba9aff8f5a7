package etcd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDestinationRotation(t *testing.T) {
	p := &Provider{
		service: "orders",
		instances: map[string]string{
			"/courier/destinations/orders/a": "10.0.0.1:6379",
			"/courier/destinations/orders/b": "10.0.0.2:6379",
		},
	}
	p.rebuild()

	first, err := p.Destination(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, _ := p.Destination(context.Background())
	third, _ := p.Destination(context.Background())

	assert.Equal(t, "10.0.0.1:6379", first)
	assert.Equal(t, "10.0.0.2:6379", second)
	assert.Equal(t, first, third)
}

func TestDestinationEmpty(t *testing.T) {
	p := &Provider{service: "orders", instances: map[string]string{}}
	p.rebuild()

	if _, err := p.Destination(context.Background()); err == nil {
		t.Fatal("expect error when no endpoints are registered")
	}
}

func TestRebuildDropsRemovedInstances(t *testing.T) {
	p := &Provider{
		service: "orders",
		instances: map[string]string{
			"/courier/destinations/orders/a": "10.0.0.1:6379",
			"/courier/destinations/orders/b": "10.0.0.2:6379",
		},
	}
	p.rebuild()
	assert.Len(t, p.endpoints, 2)

	delete(p.instances, "/courier/destinations/orders/a")
	p.rebuild()
	assert.Equal(t, []string{"10.0.0.2:6379"}, p.endpoints)
}

func TestKeyPrefix(t *testing.T) {
	p := &Provider{prefix: DefaultPrefix, service: "orders"}
	assert.Equal(t, "/courier/destinations/orders/", p.keyPrefix())

	p = &Provider{prefix: "/custom", service: "orders"}
	assert.Equal(t, "/custom/orders/", p.keyPrefix())
}
