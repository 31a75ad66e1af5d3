package permission

import "strings"

// Module returns the module prefix of a "module.action" permission name, or
// the whole name when it carries no dot.
func Module(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Set is an immutable collection of permission names. The zero value is an
// empty set and is safe to query.
//
// Set instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Set struct {
	names map[string]struct{}
}

// NewSet builds a [Set] from the given permission names. Empty names are
// dropped.
func NewSet(names ...string) Set {
	s := Set{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		s.names[name] = struct{}{}
	}
	return s
}

// Has reports whether the exact permission name is granted.
func (s Set) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// HasModule reports whether any granted permission falls under the module
// prefix.
func (s Set) HasModule(module string) bool {
	for name := range s.names {
		if Module(name) == module {
			return true
		}
	}
	return false
}

// Len returns the number of granted permissions.
func (s Set) Len() int {
	return len(s.names)
}

// Names returns the granted permission names in unspecified order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	return out
}

// Union returns a new [Set] containing the grants of both sets.
func (s Set) Union(other Set) Set {
	merged := Set{names: make(map[string]struct{}, len(s.names)+len(other.names))}
	for name := range s.names {
		merged.names[name] = struct{}{}
	}
	for name := range other.names {
		merged.names[name] = struct{}{}
	}
	return merged
}

// Group is a named bundle of permissions assignable to app tokens.
//
// Group instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Group struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Flatten merges the permissions of all groups into one [Set].
func Flatten(groups []Group) Set {
	s := Set{names: make(map[string]struct{})}
	for _, g := range groups {
		for _, name := range g.Permissions {
			if name == "" {
				continue
			}
			s.names[name] = struct{}{}
		}
	}
	return s
}
