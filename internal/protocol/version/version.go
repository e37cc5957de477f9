// Package version parses AMCP server versions and answers the capability
// questions the rest of the protocol code asks about them.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/coreos/go-semver/semver"
)

var ErrInvalidVersion = errors.New("version: invalid server version")

// Known server releases with observable protocol differences.
var (
	V207 = semver.Version{Major: 2, Minor: 0, Patch: 7}
	V210 = semver.Version{Major: 2, Minor: 1, Patch: 0}
	V218 = semver.Version{Major: 2, Minor: 1, Patch: 8}
	V220 = semver.Version{Major: 2, Minor: 2, Patch: 0}
)

// Parse accepts the forms seen in the wild: "2.1.8", "218", and full VERSION
// replies such as "2.0.7.e9fc25a Stable" or "2.1.8.12205 e2ab4eb".
func Parse(raw string) (*semver.Version, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidVersion)
	}
	head := strings.TrimPrefix(strings.ToLower(fields[0]), "v")

	if !strings.Contains(head, ".") {
		if len(head) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
		}
		parts := make([]int64, 3)
		for i, r := range head {
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
			}
			parts[i] = int64(r - '0')
		}
		return &semver.Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
	}

	segments := strings.Split(head, ".")
	nums := make([]int64, 0, 3)
	for _, seg := range segments {
		if len(nums) == 3 {
			break
		}
		n, err := strconv.ParseInt(seg, 10, 64)
		if err != nil {
			break
		}
		nums = append(nums, n)
	}
	if len(nums) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	for len(nums) < 3 {
		nums = append(nums, 0)
	}
	return semver.NewVersion(fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]))
}

// MustParse is Parse for package-level tables.
func MustParse(raw string) *semver.Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// AtLeast reports whether v is min or newer. An unknown (nil) version is
// treated as the newest server.
func AtLeast(v *semver.Version, min semver.Version) bool {
	if v == nil {
		return true
	}
	return !v.LessThan(min)
}

// Before reports whether v is strictly older than limit. Unknown versions
// are never "before" anything.
func Before(v *semver.Version, limit semver.Version) bool {
	if v == nil {
		return false
	}
	return v.LessThan(limit)
}

// SupportsRequestFraming reports whether the server echoes REQ tokens as
// RES <token> replies.
func SupportsRequestFraming(v *semver.Version) bool {
	return v != nil && AtLeast(v, V220)
}
