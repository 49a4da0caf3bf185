// Package versioning checks that a loaded plugin's wire schema is
// compatible with the host's, the same role semver plays for gating
// incompatible CLI/plugin pairs elsewhere in the ecosystem.
package versioning

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// HostWireSchemaVersion is the wire schema version this build of the
// runtime speaks. It advances only when a breaking change is made to the
// command/event tag set or encoding.
const HostWireSchemaVersion = "1.0.0"

// PackWireSchemaVersion packs a semver-ish major/minor/patch triple into
// the single u32 a guest's optional wire_schema_version export returns.
// Each component is masked to its low 10 bits, matching the 30-bit packed range
// guest toolchains are documented to target.
func PackWireSchemaVersion(major, minor, patch uint32) uint32 {
	return (major&0x3FF)<<20 | (minor&0x3FF)<<10 | (patch & 0x3FF)
}

// UnpackWireSchemaVersion reverses PackWireSchemaVersion.
func UnpackWireSchemaVersion(packed uint32) (major, minor, patch uint32) {
	major = (packed >> 20) & 0x3FF
	minor = (packed >> 10) & 0x3FF
	patch = packed & 0x3FF
	return
}

// CheckCompatible reports whether a guest-declared wire schema version is
// compatible with the host's. A guest that declares no version (packed
// == 0) is always accepted, matching plugins built before this export
// existed. Compatibility requires an equal major version; the host's
// minor/patch must be greater than or equal to the guest's, so a guest
// built against an older compatible schema still loads.
func CheckCompatible(guestPacked uint32) error {
	if guestPacked == 0 {
		return nil
	}

	host, err := semver.NewVersion(HostWireSchemaVersion)
	if err != nil {
		return fmt.Errorf("versioning: parse host wire schema version: %w", err)
	}

	major, minor, patch := UnpackWireSchemaVersion(guestPacked)
	guest, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", major, minor, patch))
	if err != nil {
		return fmt.Errorf("versioning: parse guest wire schema version: %w", err)
	}

	if guest.Major() != host.Major() {
		return fmt.Errorf("versioning: plugin wire schema %s is incompatible with host %s (major version mismatch)", guest, host)
	}
	if guest.GreaterThan(host) {
		return fmt.Errorf("versioning: plugin wire schema %s is newer than host %s", guest, host)
	}
	return nil
}
