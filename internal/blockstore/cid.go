package blockstore

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"

	"peerpass/internal/domain"
)

// Sum derives the content id for a block of data.
func Sum(data []byte) domain.CID {
	digest := sha256.Sum256(data)
	return domain.CID(base58.Encode(digest[:]))
}
