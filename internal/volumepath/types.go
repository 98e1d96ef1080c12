package volumepath

// Segment is a single placement name with an optional copy number.
type Segment struct {
	Name   string
	CopyNo int // -1 matches any copy number.
}

// NewSegment creates a segment that matches any copy number.
func NewSegment(name string) Segment {
	return Segment{Name: name, CopyNo: -1}
}

// NewSegmentWithCopy creates a segment pinned to one copy number.
func NewSegmentWithCopy(name string, copyNo int) Segment {
	return Segment{Name: name, CopyNo: copyNo}
}

// HasCopyNo reports whether the segment is pinned to a copy number.
func (s Segment) HasCopyNo() bool {
	return s.CopyNo != -1
}

// Matches reports whether a placement with the given name and copy number
// satisfies the segment.
func (s Segment) Matches(name string, copyNo int) bool {
	return s.Name == name && (!s.HasCopyNo() || s.CopyNo == copyNo)
}

// Path is the parsed form of a volume path, root first.
type Path struct {
	Segments []Segment
}
