package domain

import "fmt"

// Identity is the public record a peer broadcasts about itself.
//
// PublicKey is immutable once created; every other field may change over the
// record's lifetime, but only the owning peer may change them. Remote copies
// are replaced wholesale when a fresher record with the same key arrives.
type Identity struct {
	PublicKey PublicKey `json:"public_key"`
	Username  string    `json:"username"`
	ShortID   uint16    `json:"short_id"`
	Status    string    `json:"status,omitempty"`
}

// Equal reports exact value equality, including mutable fields. Used to
// detect re-delivery of an unchanged record.
func (id Identity) Equal(other Identity) bool {
	return id.PublicKey.Equal(other.PublicKey) &&
		id.Username == other.Username &&
		id.ShortID == other.ShortID &&
		id.Status == other.Status
}

// SameKey reports whether both records belong to the same peer.
func (id Identity) SameKey(other Identity) bool {
	return id.PublicKey.Equal(other.PublicKey)
}

// DisplayName renders the username with its short discriminator, e.g.
// "alice#0421".
func (id Identity) DisplayName() string {
	return fmt.Sprintf("%s#%04d", id.Username, id.ShortID)
}
