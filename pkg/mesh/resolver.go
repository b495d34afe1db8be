package mesh

import "strings"

// Resolver maps user-typed tokens (hex ids, short names, long names)
// onto canonical keys. Absence is a result, not an error.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the canonical key and best display name for a token.
//
// A token with the canonical hex shape resolves even when the directory
// has never seen that node. Otherwise the live directory is scanned
// case-insensitively against long and short names; the first match in
// directory order wins, shared display names are an accepted ambiguity.
func (r *Resolver) Resolve(token string) (key, display string, ok bool) {
	token = strings.TrimSpace(token)

	if k, valid := NormalizeKey(token); valid {
		display, _ = r.DisplayName(k)
		return k, display, true
	}

	tokenLower := strings.ToLower(token)
	for _, n := range r.dir.Nodes() {
		longName := strings.TrimSpace(n.LongName)
		shortName := strings.TrimSpace(n.ShortName)
		if strings.ToLower(longName) == tokenLower || strings.ToLower(shortName) == tokenLower {
			display = shortName
			if display == "" {
				display = longName
			}
			return n.Key, display, true
		}
	}

	return "", "", false
}

// DisplayName resolves a key back to a human label: short name first,
// then long name. Callers fall back further to the raw key.
func (r *Resolver) DisplayName(key string) (string, bool) {
	n, ok := r.dir.Node(key)
	if !ok {
		return "", false
	}
	if n.ShortName != "" {
		return n.ShortName, true
	}
	if n.LongName != "" {
		return n.LongName, true
	}
	return "", false
}
