package portset

import (
	"iter"

	"github.com/contriboss/leeloo-go"
)

// List is a set of ports.
type List struct {
	leeloo.List[uint32]
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Add adds a single port.
func (l *List) Add(p Port) {
	l.List.AddValue(p.Uint32())
}

// AddPorts adds the ports lo to hi of one protocol.
func (l *List) AddPorts(lo, hi uint16, proto Protocol) {
	l.List.AddRange(Port{lo, proto}.Uint32(), Port{hi, proto}.Uint32())
}

// AddString adds ports written as "80", "80/udp" or "1000-2000/tcp".
func (l *List) AddString(s string) error {
	lo, hi, proto, err := parsePortRange(s)
	if err != nil {
		return err
	}
	l.AddPorts(lo, hi, proto)
	return nil
}

// Remove records a port for removal by the next Aggregate.
func (l *List) Remove(p Port) {
	l.List.RemoveValue(p.Uint32())
}

// RemovePorts records the ports lo to hi of one protocol for removal.
func (l *List) RemovePorts(lo, hi uint16, proto Protocol) {
	l.List.RemoveRange(Port{lo, proto}.Uint32(), Port{hi, proto}.Uint32())
}

// RemoveString records ports written as in AddString for removal.
func (l *List) RemoveString(s string) error {
	lo, hi, proto, err := parsePortRange(s)
	if err != nil {
		return err
	}
	l.RemovePorts(lo, hi, proto)
	return nil
}

// ContainsPort reports whether p is in the aggregated list.
func (l *List) ContainsPort(p Port) bool {
	return l.List.Contains(p.Uint32())
}

// Ports iterates over every port of the list.
func (l *List) Ports() iter.Seq[Port] {
	return func(yield func(Port) bool) {
		for v := range l.Values() {
			if !yield(FromUint32(v)) {
				return
			}
		}
	}
}
