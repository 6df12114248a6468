package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/spiffcs/tracker/internal/filter"
	"github.com/spiffcs/tracker/internal/model"
)

// Params is the full set of query parameters that affect a fetch
// result. Two fetches with identical params share a key; differing in
// any single field produces a different key.
type Params struct {
	Repositories       []model.RepositoryRef `json:"repositories"`
	State              model.StateFilter     `json:"state"`
	IncludeDiscussions bool                  `json:"include_discussions"`
	Logic              filter.Logic          `json:"condition_logic"`
	MaxAge             time.Duration         `json:"max_age"`
}

// Key returns the deterministic digest for the params. Struct fields
// marshal in declaration order, so the JSON form is canonical.
func (p Params) Key() string {
	data, err := json.Marshal(p)
	if err != nil {
		// Params contains only marshalable types; this cannot happen.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
