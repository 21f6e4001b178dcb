package netlist

import (
	"github.com/matzehuels/verilive/pkg/errors"
)

// Registry maps external net identifiers to canonical Net entries.
//
// Nets are created lazily on first reference and never deleted. Iteration
// order is creation order, which keeps graph output deterministic.
//
// A Registry belongs to a single parse; it is not safe for concurrent use.
type Registry struct {
	nets  []Net
	index map[string]NetID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]NetID)}
}

// Get returns the handle for an existing net.
// It fails with UNRESOLVED_NET when id has never been registered.
func (r *Registry) Get(id string) (NetID, error) {
	nid, ok := r.index[id]
	if !ok {
		return NoNet, errors.New(errors.ErrCodeUnresolvedNet, "net %s not registered", id)
	}
	return nid, nil
}

// GetOrCreate returns the net registered under id, creating it with name on
// first use. Later calls with the same id ignore name.
func (r *Registry) GetOrCreate(id, name string) NetID {
	if nid, ok := r.index[id]; ok {
		return nid
	}
	nid := NetID(len(r.nets))
	r.nets = append(r.nets, Net{ID: id, Name: name})
	r.index[id] = nid
	return nid
}

// AttachPort adds port to the member list of net id (creating the net if
// needed) and returns the net handle for the port's back-reference.
// Attaching the same port twice adds it twice.
func (r *Registry) AttachPort(id, name string, port PortID) NetID {
	nid := r.GetOrCreate(id, name)
	r.nets[nid].Members = append(r.nets[nid].Members, port)
	return nid
}

// Net returns the net for a handle. The pointer is valid until the next
// GetOrCreate call.
func (r *Registry) Net(nid NetID) *Net {
	return &r.nets[nid]
}

// Name returns the label of a net, or "?" for NoNet.
func (r *Registry) Name(nid NetID) string {
	if nid < 0 || int(nid) >= len(r.nets) {
		return "?"
	}
	return r.nets[nid].Name
}

// Len returns the number of registered nets.
func (r *Registry) Len() int {
	return len(r.nets)
}

// Nets returns all nets in creation order.
func (r *Registry) Nets() []Net {
	return r.nets
}
