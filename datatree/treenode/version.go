package treenode

import "strconv"

// Version is a version stamp. Versions are ordered, later commits carry higher versions.
// The zero version is the version of an empty data tree.
type Version uint64

// Initial is the version of a freshly created data tree.
const Initial Version = 0

// Next returns the version following v.
func (v Version) Next() Version {
	return v + 1
}

// After is true if v is a later version than other.
func (v Version) After(other Version) bool {
	return v > other
}

func (v Version) String() string {
	return "v" + strconv.FormatUint(uint64(v), 10)
}
