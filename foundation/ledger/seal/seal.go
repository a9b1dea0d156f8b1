// Package seal provides the hashing support for sealing blocks and linking
// them into the chain.
package seal

import (
	"crypto/sha256"
	"encoding/hex"
)

// Markers used when sealing the genesis block. EmptyRoot is what an empty
// transaction set contributes to a seal.
const (
	ZeroHash  = "0"
	ZeroNonce = "0"
	EmptyRoot = ""
)

// HashLen is the length of the hex encoded digest produced by Hash.
const HashLen = 64

// Hash seals the three block fields into a single fixed length digest. The
// fields are concatenated as UTF-8 text, so the empty root marker
// contributes nothing to the digest.
func Hash(prevBlockHash string, transRoot string, nonce string) string {
	hash := sha256.Sum256([]byte(prevBlockHash + transRoot + nonce))
	return hex.EncodeToString(hash[:])
}
