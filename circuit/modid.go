// modid.go implements module-instance identity. Every instantiation of a
// module gets its own ModId; hashing the instance id with a local wire id
// yields that instance's globally-unique name for the wire, so recursive
// inlining never collides wire namespaces.
package circuit

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/sha3"
)

// ModId identifies one instantiation of a module. Own is sampled uniformly
// at random at construction; Parent is the Own of the instantiating module.
// Collisions between localized wires are negligible under the keyed sha3
// construction in ToWire. A counter-based scheme could be substituted here
// if reproducible builds were ever needed.
type ModId struct {
	Parent uint64
	Own    uint64
}

// NewModId creates an instance id under the given parent.
func NewModId(parent uint64) ModId {
	return ModId{Parent: parent, Own: rand.Uint64()}
}

// ToWire maps a wire in the module's local namespace to its name in this
// instance's namespace. Deterministic for a fixed ModId.
func (id ModId) ToWire(w Wire) Wire {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], id.Parent)
	binary.LittleEndian.PutUint64(buf[8:16], id.Own)
	binary.LittleEndian.PutUint64(buf[16:24], w)
	sum := sha3.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[:8])
}
