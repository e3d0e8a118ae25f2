package toast

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces notification ids.
//
// A Manager never hands out the same id twice. Generators other than UUIDs
// and SequentialIDs may repeat themselves; the Manager then remembers every
// id it issued and suffixes repeats.
type IDGenerator interface {
	NewID() string
}

// distinct is implemented by generators that never repeat an id.
type distinct interface {
	distinctIDs()
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

// NewID calls f.
func (f IDFunc) NewID() string { return f() }

// UUIDs returns a generator of random UUIDv4 strings. Ids are safe to mix
// across Manager instances.
func UUIDs() IDGenerator {
	return uuids{}
}

type uuids struct{}

func (uuids) NewID() string { return uuid.NewString() }
func (uuids) distinctIDs()  {}

// SequentialIDs returns a generator of prefix-1, prefix-2, ...
// The counter belongs to the returned generator, so two managers built with
// separate SequentialIDs values never share state.
func SequentialIDs(prefix string) IDGenerator {
	if prefix == "" {
		prefix = "toast"
	}
	return &sequence{prefix: prefix + "-"}
}

type sequence struct {
	prefix string
	n      atomic.Uint64
}

func (s *sequence) NewID() string {
	return s.prefix + strconv.FormatUint(s.n.Add(1), 10)
}

func (s *sequence) distinctIDs() {}
