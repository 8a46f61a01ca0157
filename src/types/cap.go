package types

import "fmt"

// Capability is a reference capability annotation. CapNone means that the
// reference was not annotated and matches any capability.
type Capability int

const (
	// CapNone is an unannotated reference.
	CapNone Capability = iota
	// CapIso is an isolated, mutable reference with no other aliases.
	CapIso
	// CapTrn is a transition reference, writable with read-only aliases.
	CapTrn
	// CapRef is a mutable reference.
	CapRef
	// CapVal is an immutable, shareable reference.
	CapVal
	// CapBox is a read-only reference.
	CapBox
	// CapTag is an opaque identity-only reference.
	CapTag
)

var capNames = [...]string{"", "iso", "trn", "ref", "val", "box", "tag"}

// subcaps maps a non-ephemeral capability to the capabilities it is a
// subcapability of. Ephemeral iso and trn are handled in SubCap.
var subcaps = map[Capability][]Capability{
	CapIso: {CapIso, CapTag},
	CapTrn: {CapTrn, CapBox, CapTag},
	CapRef: {CapRef, CapBox, CapTag},
	CapVal: {CapVal, CapBox, CapTag},
	CapBox: {CapBox, CapTag},
	CapTag: {CapTag},
}

// ParseCapability looks up a capability by its keyword.
func ParseCapability(keyword string) (Capability, bool) {
	for i, name := range capNames {
		if i > 0 && name == keyword {
			return Capability(i), true
		}
	}
	return CapNone, false
}

func (c Capability) String() string {
	if c < 0 || int(c) >= len(capNames) {
		return fmt.Sprintf("Capability(%d)", int(c))
	}
	return capNames[c]
}

// SubCap reports if a reference with capability sub can be used where super
// is required. Ephemerality only changes the answer for iso and trn.
func SubCap(sub Capability, subEph bool, super Capability, superEph bool) bool {
	if sub == CapNone || super == CapNone {
		return true
	}
	if superEph {
		switch super {
		case CapIso:
			return sub == CapIso && subEph
		case CapTrn:
			return subEph && (sub == CapIso || sub == CapTrn)
		}
	}
	if subEph {
		switch sub {
		case CapIso:
			return true
		case CapTrn:
			return super != CapIso
		}
	}
	for _, c := range subcaps[sub] {
		if c == super {
			return true
		}
	}
	return false
}

// EqCap reports if two capability annotations describe the same capability.
func EqCap(a Capability, aEph bool, b Capability, bEph bool) bool {
	if a == CapNone || b == CapNone {
		return true
	}
	return a == b && aEph == bEph
}
