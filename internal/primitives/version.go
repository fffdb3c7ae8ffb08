package primitives

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeVersion identifies a definition. An explicit Version wins.
// Otherwise the result is a short digest of the ID, the initial state and
// every state and transition in order, so reordering transitions (which
// changes priorities) yields a new version.
func ComputeVersion(config *MachineConfig) string {
	if config.Version != "" {
		return config.Version
	}

	h := sha256.New()
	fmt.Fprintf(h, "m\x00%s\x00%s\x00", config.ID, config.Initial)
	for _, s := range config.States {
		if s == nil {
			h.Write([]byte{0})
			continue
		}
		fmt.Fprintf(h, "s\x00%s\x00%s\x00", s.ID, s.Action)
		for _, t := range s.Transitions {
			after := int64(-1)
			if t.After != nil {
				after = int64(*t.After)
			}
			fmt.Fprintf(h, "t\x00%s\x00%s\x00%d\x00", t.Target, t.Guard, after)
		}
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}
