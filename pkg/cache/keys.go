package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/kintreehq/kintree/pkg/layout"
	"github.com/kintreehq/kintree/pkg/tree"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// PopulationKey hashes a population snapshot. Serialization is
// insertion-ordered, so the same snapshot always produces the same key.
func PopulationKey(pop *tree.Population) (string, error) {
	data, err := tree.MarshalPopulation(pop)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// ArtifactKey derives the cache key for a rendered artifact: the population
// hash combined with the layout options and output format.
func ArtifactKey(populationHash, format string, opts layout.Options) string {
	params, _ := json.Marshal(opts)
	return fmt.Sprintf("diagram:%s:%s", format, Hash([]byte(populationHash+string(params))))
}
