package models

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// AddToSet returns set with v appended unless already present.
func AddToSet(set []string, v string) []string {
	if contains(set, v) {
		return set
	}
	return append(set, v)
}

// RemoveFromSet returns set without any occurrence of v.
func RemoveFromSet(set []string, v string) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
