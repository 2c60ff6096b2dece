// In file: internal/version/version.go

// Package version centralizes the versions of logical components whose cached output
// would become stale when their logic changes. The versions are embedded into cache
// keys, so bumping one silently invalidates every entry built by the old logic.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComponentVersions holds the version strings for cache-relevant parts of the gateway.
// Bump a value before deploying a change to that component.
var ComponentVersions = struct {
	// Catalog must change whenever the cached MenuItem JSON layout changes.
	Catalog string

	// PromptLogic must change whenever the system prompt or its few-shot examples change.
	PromptLogic string
}{
	Catalog:     "v1.0",
	PromptLogic: "v1.0",
}

// GenerateVersionedCacheKey builds "<prefix>:<sha256(scope)>:cv<catalog>_pv<prompt>".
func GenerateVersionedCacheKey(prefix, scope string) string {
	hasher := sha256.New()
	hasher.Write([]byte(scope))
	scopeHash := hex.EncodeToString(hasher.Sum(nil))

	versionString := fmt.Sprintf("cv%s_pv%s",
		ComponentVersions.Catalog,
		ComponentVersions.PromptLogic,
	)

	return fmt.Sprintf("%s:%s:%s", prefix, scopeHash, versionString)
}
