package types

// AccessRights is the set of rights attached to a capability reference.
// Rights are a capability, not part of the reference's identity: the host
// may mint a reference with any subset, and a holder can only give rights
// away, never take more.
type AccessRights uint8

const (
	// AccessNone grants nothing; the reference can only be passed around.
	AccessNone AccessRights = 0
	// AccessRead permits reading the value under the reference.
	AccessRead AccessRights = 1 << 0
	// AccessWrite permits replacing the value under the reference.
	AccessWrite AccessRights = 1 << 1
	// AccessAdd permits accumulating into the value under the reference.
	AccessAdd AccessRights = 1 << 2

	AccessReadWrite    = AccessRead | AccessWrite
	AccessReadAdd      = AccessRead | AccessAdd
	AccessAddWrite     = AccessAdd | AccessWrite
	AccessReadAddWrite = AccessRead | AccessAdd | AccessWrite
)

// IsReadable reports whether the rights include Read.
func (r AccessRights) IsReadable() bool { return r&AccessRead != 0 }

// IsWriteable reports whether the rights include Write.
func (r AccessRights) IsWriteable() bool { return r&AccessWrite != 0 }

// IsAddable reports whether the rights include Add.
func (r AccessRights) IsAddable() bool { return r&AccessAdd != 0 }

// Covers reports whether r is a superset of other. An operation requiring
// rights `other` may proceed on a reference carrying rights `r` iff
// r.Covers(other).
func (r AccessRights) Covers(other AccessRights) bool {
	return r&other == other
}

func (r AccessRights) String() string {
	switch r & AccessReadAddWrite {
	case AccessNone:
		return "NONE"
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	case AccessAdd:
		return "ADD"
	case AccessReadWrite:
		return "READ_WRITE"
	case AccessReadAdd:
		return "READ_ADD"
	case AccessAddWrite:
		return "ADD_WRITE"
	case AccessReadAddWrite:
		return "READ_ADD_WRITE"
	default:
		return "UNKNOWN"
	}
}

// valid reports whether no bits outside the three defined rights are set.
func (r AccessRights) valid() bool {
	return r&^AccessReadAddWrite == 0
}
