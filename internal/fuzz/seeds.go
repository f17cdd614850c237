package fuzztests

import (
	"bytes"
	"testing"

	"projector/internal/modelio"
	"projector/internal/testkit"
)

const maxFuzzInput = 256 << 10

func clampSeed(b []byte) []byte {
	if len(b) > maxFuzzInput {
		return append([]byte(nil), b[:maxFuzzInput]...)
	}
	return append([]byte(nil), b...)
}

// addSnapshotSeeds adds the sample snapshot and a few prefixes of it.
func addSnapshotSeeds(f *testing.F) {
	var buf bytes.Buffer
	if err := modelio.Encode(&buf, testkit.NewSample().M); err != nil {
		f.Fatalf("encode sample: %v", err)
	}
	full := buf.Bytes()
	f.Add(clampSeed(full))
	for _, n := range []int{0, 1, 16, len(full) / 2, len(full) - 1} {
		f.Add(clampSeed(full[:n]))
	}
}

var configSeeds = []string{
	"",
	"[options]\nshow_attributes = false\nname_lookup_mode = \"type\"\n",
	"[scope]\nnamespace = \"Acme.Geometry\"\nusings = [\"System\"]\n[scope.aliases]\nL = \"System.Collections.Generic.List`1\"\n",
	"[driver]\njobs = -1\n",
	"[options]\nbogus = 1\n",
	"[scope.aliases]\n\"a.b\" = \"System\"\n",
	"not toml at all [[[",
}

var nameSeeds = []string{
	"",
	"Acme.Geometry.Circle",
	"Acme.Geometry.Point`1",
	"Acme.Geometry.Point`1+Comparer",
	"System.Collections.Generic.List`1+Enumerator",
	"System.Func`2",
	"`",
	"A`x",
	"A`99999999999999999999",
	"+",
	"..",
	"Acme.Geometry.Circle.Diameter",
}
