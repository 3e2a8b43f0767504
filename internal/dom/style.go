package dom

import "strings"

type declaration struct {
	prop  string
	value string
}

// Style is an ordered list of inline CSS declarations. The zero value is empty.
type Style struct {
	decls []declaration
}

// ParseStyle parses a style attribute such as "display: flex; cursor: default".
// Malformed declarations are skipped.
func ParseStyle(s string) Style {
	var st Style
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		st.Set(prop, value)
	}
	return st
}

// Get returns the value of prop, or "".
func (s *Style) Get(prop string) string {
	prop = normalizeProp(prop)
	for _, d := range s.decls {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// Set assigns prop. An empty value removes the declaration.
func (s *Style) Set(prop, value string) {
	prop = normalizeProp(prop)
	value = strings.TrimSpace(value)
	if prop == "" {
		return
	}
	for i, d := range s.decls {
		if d.prop != prop {
			continue
		}
		if value == "" {
			s.decls = append(s.decls[:i:i], s.decls[i+1:]...)
		} else {
			s.decls[i].value = value
		}
		return
	}
	if value != "" {
		s.decls = append(s.decls, declaration{prop: prop, value: value})
	}
}

// String serializes the declarations in insertion order.
func (s *Style) String() string {
	parts := make([]string, 0, len(s.decls))
	for _, d := range s.decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

func normalizeProp(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
