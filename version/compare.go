package version

import (
	"cmp"
	"fmt"
	"strings"
)

type semver struct {
	core       [3]int
	prerelease string
}

func parseSemver(s string) (semver, error) {
	var v semver
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, _, _ = strings.Cut(s, "+")
	s, v.prerelease, _ = strings.Cut(s, "-")

	var rest string
	n, _ := fmt.Sscanf(s, "%d.%d.%d%s", &v.core[0], &v.core[1], &v.core[2], &rest)
	if n < 3 || rest != "" {
		return semver{}, fmt.Errorf("malformed version %q", s)
	}
	return v, nil
}

// Compare orders two major.minor.patch versions, with or without a leading
// "v". Build metadata is ignored and a pre-release sorts before its release.
// The result is 1 if a > b, -1 if a < b and 0 if they are equal.
func Compare(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, err
	}
	bv, err := parseSemver(b)
	if err != nil {
		return 0, err
	}

	for i := range av.core {
		if c := cmp.Compare(av.core[i], bv.core[i]); c != 0 {
			return c, nil
		}
	}

	switch {
	case av.prerelease == bv.prerelease:
		return 0, nil
	case av.prerelease == "":
		return 1, nil
	case bv.prerelease == "":
		return -1, nil
	default:
		return cmp.Compare(av.prerelease, bv.prerelease), nil
	}
}
