package models

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/segmentio/encoding/json"
)

// containerFingerprint is everything about a container whose change should
// invalidate cached views of it.
type containerFingerprint struct {
	Metadata []string `json:"metadata"`
	Members  []string `json:"members"`
}

// ComputeChangeHash fingerprints a container from its metadata and the ids of
// its members. Member order only matters when ordered is true.
func ComputeChangeHash(metadata []string, memberIDs []string, ordered bool) string {
	members := make([]string, len(memberIDs))
	copy(members, memberIDs)
	if !ordered {
		sort.Strings(members)
	}

	// Marshalling a struct of string slices cannot fail.
	data, _ := json.Marshal(containerFingerprint{Metadata: metadata, Members: members})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
