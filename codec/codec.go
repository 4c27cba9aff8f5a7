package codec

import (
	"fmt"
	"sync"
)

// Codec marshals request payloads and unmarshals response payloads.
// Unmarshal allocates the result itself so implementations decide the
// concrete type, typically from a configured prototype.
type Codec interface {
	Name() string

	// ContentType names the payload format on the wire.
	ContentType() string

	Marshal(v interface{}) ([]byte, error)

	Unmarshal(data []byte) (interface{}, error)
}

// Factory builds a fresh Codec.
type Factory func() Codec

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"json": NewJSON,
	}
)

// Register makes a codec factory available by name, replacing any
// previous registration.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// New builds the codec registered under name.
func New(name string) (Codec, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
	return f(), nil
}
