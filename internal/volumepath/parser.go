package volumepath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex matches `name` or `name[3]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_.:-]+)(?:\[(\d+)\])?$`)

// Parse builds a Path from its string form. A leading '/' is allowed.
func Parse(raw string) (*Path, error) {
	raw = strings.TrimPrefix(raw, "/")
	if raw == "" {
		return nil, fmt.Errorf("volume path cannot be empty")
	}

	p := &Path{}
	for _, part := range strings.Split(raw, "/") {
		if part == "" {
			return nil, fmt.Errorf("volume path %q contains an empty segment", raw)
		}
		matches := segmentRegex.FindStringSubmatch(part)
		if matches == nil {
			return nil, fmt.Errorf("invalid volume path segment %q", part)
		}
		seg := NewSegment(matches[1])
		if matches[2] != "" {
			copyNo, err := strconv.Atoi(matches[2])
			if err != nil {
				return nil, fmt.Errorf("invalid copy number in segment %q: %w", part, err)
			}
			seg.CopyNo = copyNo
		}
		p.Segments = append(p.Segments, seg)
	}
	return p, nil
}

// String serialises the path into its canonical form.
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(seg.Name)
		if seg.HasCopyNo() {
			fmt.Fprintf(&sb, "[%d]", seg.CopyNo)
		}
	}
	return sb.String()
}

// Child returns a new path extended by one segment.
func (p *Path) Child(seg Segment) *Path {
	out := &Path{Segments: make([]Segment, 0, len(p.Segments)+1)}
	out.Segments = append(out.Segments, p.Segments...)
	out.Segments = append(out.Segments, seg)
	return out
}
