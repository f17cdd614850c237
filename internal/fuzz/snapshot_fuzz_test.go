package fuzztests

import (
	"bytes"
	"context"
	"testing"

	"projector/internal/config"
	"projector/internal/diag"
	"projector/internal/driver"
	"projector/internal/modelio"
)

// FuzzSnapshotDecode feeds arbitrary bytes to the snapshot decoder. Models
// it accepts must survive a full projection.
func FuzzSnapshotDecode(f *testing.F) {
	addSnapshotSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		m, err := modelio.Decode(bytes.NewReader(clampSeed(input)))
		if err != nil {
			return
		}
		sess, err := driver.NewSession(m, config.Default(), diag.NopReporter{})
		if err != nil {
			return
		}
		_, _ = sess.ProjectAll(context.Background(), sess.TopLevelTypes(""))
	})
}
