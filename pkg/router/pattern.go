package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type segmentKind int

const (
	segStatic segmentKind = iota
	segParam
	segCatchAll
)

type segment struct {
	kind      segmentKind
	value     string // static text, or the parameter name
	paramType string
}

// pattern is a compiled route pattern.
type pattern struct {
	raw      string
	segments []segment
}

// compilePattern parses a route pattern such as "/items/:id:int".
func compilePattern(raw string) (pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return pattern{}, fmt.Errorf("pattern %q must start with /", raw)
	}
	p := pattern{raw: raw}
	parts := splitPath(raw)
	names := make(map[string]bool, len(parts))
	for i, part := range parts {
		var seg segment
		switch {
		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return pattern{}, fmt.Errorf("pattern %q: catch-all %q must be the last segment", raw, part)
			}
			seg = segment{kind: segCatchAll, value: part[1:]}
		case strings.HasPrefix(part, ":"):
			name, typ := parseParamSegment(part)
			if !knownParamType(typ) {
				return pattern{}, fmt.Errorf("pattern %q: unknown parameter type %q", raw, typ)
			}
			seg = segment{kind: segParam, value: name, paramType: typ}
		default:
			if part == "" {
				return pattern{}, fmt.Errorf("pattern %q has an empty segment", raw)
			}
			seg = segment{kind: segStatic, value: part}
		}
		if seg.kind != segStatic {
			if seg.value == "" {
				return pattern{}, fmt.Errorf("pattern %q: unnamed parameter", raw)
			}
			if names[seg.value] {
				return pattern{}, fmt.Errorf("pattern %q: duplicate parameter %q", raw, seg.value)
			}
			names[seg.value] = true
		}
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// match reports whether the decoded path segments match p and returns the
// captured parameters.
func (p pattern) match(parts []string) (Params, bool) {
	var params Params
	for i, seg := range p.segments {
		if seg.kind == segCatchAll {
			if i >= len(parts) {
				return nil, false
			}
			if params == nil {
				params = make(Params)
			}
			params[seg.value] = strings.Join(parts[i:], "/")
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch seg.kind {
		case segStatic:
			if parts[i] != seg.value {
				return nil, false
			}
		case segParam:
			if ValidateParam(parts[i], seg.paramType) != nil {
				return nil, false
			}
			if params == nil {
				params = make(Params)
			}
			params[seg.value] = parts[i]
		}
	}
	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// splitPath splits a path into segments. Leading and trailing slashes are
// ignored, so "/about/" and "/about" are the same path.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// decodePath splits an escaped URL path and unescapes every segment.
func decodePath(escaped string) ([]string, error) {
	parts := splitPath(escaped)
	for i, part := range parts {
		dec, err := url.PathUnescape(part)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		if strings.ContainsRune(dec, 0) {
			return nil, fmt.Errorf("segment %d contains a NUL byte", i)
		}
		parts[i] = dec
	}
	return parts, nil
}

// parseParamSegment extracts name and type from a parameter segment.
// Input: ":id" or ":id:int" -> name="id", type="string" or "int"
func parseParamSegment(seg string) (name, paramType string) {
	seg = seg[1:]
	if idx := strings.Index(seg, ":"); idx != -1 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, "string"
}

func knownParamType(t string) bool {
	switch t {
	case "int", "uint", "uuid", "string":
		return true
	}
	return false
}

// uuidRegex matches valid UUIDs.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ValidateParam validates a parameter value against its declared type.
func ValidateParam(value, paramType string) error {
	switch paramType {
	case "int":
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
	case "uint":
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
	case "uuid":
		if !uuidRegex.MatchString(value) {
			return fmt.Errorf("invalid UUID: %s", value)
		}
	}
	return nil
}

// Params holds captured path parameters.
type Params map[string]string

// Get returns the named parameter or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Int returns the named parameter parsed as an int.
func (p Params) Int(name string) (int, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	return strconv.Atoi(v)
}
