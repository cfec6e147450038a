package domain

import "strings"

// EDT is a dot-separated work-breakdown code, e.g. "PR.0001.2.3" or
// "PR.0001.2.3.M". The first two segments identify the project; a trailing
// "M" segment marks a milestone and does not count toward structural depth.
type EDT string

const milestoneSegment = "M"

// ParseEDT normalizes a raw cell value into an EDT code.
func ParseEDT(s string) EDT {
	return EDT(strings.TrimSpace(s))
}

func (e EDT) String() string { return string(e) }

// IsEmpty reports whether the code carries no segments at all.
func (e EDT) IsEmpty() bool { return strings.TrimSpace(string(e)) == "" }

// Segments returns the dot-separated parts of the code.
func (e EDT) Segments() []string {
	if e.IsEmpty() {
		return nil
	}
	return strings.Split(string(e), ".")
}

// HasMilestoneSuffix reports whether the code ends with the milestone marker.
func (e EDT) HasMilestoneSuffix() bool {
	parts := e.Segments()
	return len(parts) > 0 && parts[len(parts)-1] == milestoneSegment
}

// Base returns the code without a trailing milestone marker.
func (e EDT) Base() EDT {
	if !e.HasMilestoneSuffix() {
		return e
	}
	parts := e.Segments()
	return EDT(strings.Join(parts[:len(parts)-1], "."))
}

// Depth is the number of segments, excluding a trailing milestone marker.
// "PR.0001" has depth 2, "PR.0001.1.4.M" has depth 4.
func (e EDT) Depth() int {
	return len(e.Base().Segments())
}

// ProjectCode returns the first two segments, which identify the project.
// Codes shorter than two segments are returned unchanged.
func (e EDT) ProjectCode() EDT {
	parts := e.Segments()
	if len(parts) < 2 {
		return e
	}
	return EDT(strings.Join(parts[:2], "."))
}

// PhaseCode returns the first three segments (the enclosing phase), or ""
// for codes at or above phase depth.
func (e EDT) PhaseCode() EDT {
	parts := e.Base().Segments()
	if len(parts) <= 3 {
		return ""
	}
	return EDT(strings.Join(parts[:3], "."))
}

// IsPrefixOf reports whether e is a strict dot-prefix of child, i.e. child
// sits somewhere below e in the hierarchy. A code is not a prefix of itself.
func (e EDT) IsPrefixOf(child EDT) bool {
	if e.IsEmpty() || child == e {
		return false
	}
	return strings.HasPrefix(string(child), string(e)+".")
}
