package pebbledb

import "fmt"

// registry is the ordered mapping from domain names to partition handles,
// built once per open and validated against the fixed domain list. The
// engine's default partition is held separately and is not addressable
// through lookups.
type registry struct {
	names []string
	parts map[string]*partition
	def   *partition
}

func newRegistry(domains []string) (*registry, error) {
	r := &registry{
		names: make([]string, 0, len(domains)),
		parts: make(map[string]*partition, len(domains)),
		def:   newPartition(""),
	}
	for _, name := range domains {
		if name == "" {
			return nil, fmt.Errorf("domain name must not be empty")
		}
		if _, dup := r.parts[name]; dup {
			return nil, fmt.Errorf("duplicate domain: %s", name)
		}
		r.names = append(r.names, name)
		r.parts[name] = newPartition(name)
	}
	return r, nil
}

// handle returns the partition for a registered domain name.
func (r *registry) handle(name string) (*partition, bool) {
	p, ok := r.parts[name]
	return p, ok
}

// defaultHandle returns the reserved default partition, used only for
// store-internal metadata.
func (r *registry) defaultHandle() *partition {
	return r.def
}
