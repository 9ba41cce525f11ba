package pipeline

import (
	"github.com/google/uuid"

	"github.com/KaramelBytes/tabloom-cli/internal/frame"
)

// Cache holds intermediate tables keyed by step name. Tables stored without
// a name get a random handle. A Cache belongs to one run and is not safe
// for concurrent use.
type Cache struct {
	tables map[string]*frame.Table
	order  []string
}

func NewCache() *Cache {
	return &Cache{tables: make(map[string]*frame.Table)}
}

// Put stores t under name and returns the key used.
func (c *Cache) Put(name string, t *frame.Table) string {
	if name == "" {
		name = uuid.NewString()
	}
	if _, ok := c.tables[name]; !ok {
		c.order = append(c.order, name)
	}
	c.tables[name] = t
	return name
}

func (c *Cache) Get(name string) (*frame.Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Keys returns stored keys in insertion order.
func (c *Cache) Keys() []string {
	return append([]string(nil), c.order...)
}

func (c *Cache) Len() int {
	return len(c.tables)
}
