package orbit

import (
	"strconv"
	"strings"

	"github.com/cbegin/voxrender/internal/effects"
)

// ParseCompressor parses the VoiceData compressor string syntax
// "threshold:ratio:knee:attack:release" or the short form
// "threshold:ratio", defaulting the remaining fields. A parse failure
// disables the compressor for that orbit (returns nil) rather than
// panicking, per the engine's configuration-level error policy.
func ParseCompressor(sampleRate int, spec string) *effects.Compressor {
	parts := strings.Split(spec, ":")
	bad := false
	get := func(idx int, def float64) float64 {
		if idx >= len(parts) {
			return def
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[idx]), 64)
		if err != nil {
			bad = true
			return def
		}
		return v
	}
	if len(parts) < 2 {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return nil
	}
	threshold := get(0, -20)
	ratio := get(1, 4)
	knee := get(2, 0)
	attack := get(3, 5)
	release := get(4, 100)
	if bad {
		return nil
	}
	return effects.NewCompressor(sampleRate, float32(threshold), float32(ratio), float32(knee), float32(attack), float32(release), 0)
}
