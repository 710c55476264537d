package domainstore

// Registered domain names. Each domain maps to one partition in the
// underlying engine; the set is fixed at compile time.
const (
	// DomainConfigurations holds persistent host settings.
	DomainConfigurations = "configurations"
	// DomainQueries holds cached query results.
	DomainQueries = "queries"
	// DomainEvents holds high-volume captured events. Writes to this domain
	// trade crash-durability for throughput.
	DomainEvents = "events"
	// DomainLogs holds buffered log records awaiting forwarding.
	DomainLogs = "logs"
)

// Domains lists every registered domain in registration order.
var Domains = []string{
	DomainConfigurations,
	DomainQueries,
	DomainEvents,
	DomainLogs,
}

// ValidDomain reports whether name is a registered domain.
func ValidDomain(name string) bool {
	for _, d := range Domains {
		if d == name {
			return true
		}
	}
	return false
}

// KVPair is one element of an ordered write batch.
type KVPair struct {
	Key   string
	Value string
}

// Database is the application-facing interface of the persistence layer.
// Implementations organize data into the registered domains and must be safe
// for concurrent reads and writes against an open handle. Close must not be
// called concurrently with other operations without external coordination.
type Database interface {
	// SetUp opens (or re-opens) the store. It is safe to call repeatedly;
	// any previously open handle is released first.
	SetUp() error
	// Close releases the store handle. Calling Close on a closed database
	// is a no-op.
	Close() error

	// Get retrieves the value stored under key in the given domain.
	// Returns ErrNotFound if the key does not exist.
	Get(domain, key string) (string, error)
	// GetInt retrieves a value and interprets it as a decimal integer.
	GetInt(domain, key string) (int, error)
	// Scan returns the keys in domain that start with prefix, in ascending
	// byte order. If max > 0 at most max keys are returned.
	Scan(domain, prefix string, max int) ([]string, error)

	// Put stores a single key-value pair.
	Put(domain, key, value string) error
	// PutInt stores an integer value as its decimal representation.
	PutInt(domain, key string, value int) error
	// PutBatch applies an ordered list of pairs to one domain atomically.
	PutBatch(domain string, pairs []KVPair) error
	// Remove deletes a single key.
	Remove(domain, key string) error
	// RemoveRange deletes every key k with low <= k <= high.
	RemoveRange(domain, low, high string) error
}
