package runtime

import "sort"

// supportedVersionMatrix lists the PHP versions each Valet major release can serve
var supportedVersionMatrix = map[int][]string{
	2: {"5.6", "7.0", "7.1", "7.2", "7.3", "7.4", "8.0", "8.1", "8.2", "8.3"},
	3: {"7.1", "7.2", "7.3", "7.4", "8.0", "8.1", "8.2", "8.3"},
	4: {"7.4", "8.0", "8.1", "8.2", "8.3"},
}

// SupportedVersions returns the PHP versions supported by a Valet major version.
// An unknown major yields an empty list.
func SupportedVersions(valetMajor int) []string {
	versions, ok := supportedVersionMatrix[valetMajor]
	if !ok {
		return []string{}
	}
	return append([]string(nil), versions...)
}

// IsSupported reports whether version is in the matrix row for valetMajor
func IsSupported(valetMajor int, version string) bool {
	for _, v := range supportedVersionMatrix[valetMajor] {
		if v == version {
			return true
		}
	}
	return false
}

// KnownValetMajors returns the Valet majors present in the matrix, ascending
func KnownValetMajors() []int {
	majors := make([]int, 0, len(supportedVersionMatrix))
	for major := range supportedVersionMatrix {
		majors = append(majors, major)
	}
	sort.Ints(majors)
	return majors
}
