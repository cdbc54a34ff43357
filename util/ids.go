package util

import (
	"github.com/rs/xid"
)

// GenScriptID generates a token used to name per-invocation batch scripts.
// IDs are globally unique and sortable, so concurrent dispatches never
// collide on the shared filesystem.
func GenScriptID() string {
	id := xid.New()
	return id.String()
}
