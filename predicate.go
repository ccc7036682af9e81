package burstpick

import "strings"

// KeyPredicate reports whether a group key names a burst whose frames should be
// scored against each other. Groups that fail it are relocated unscored.
type KeyPredicate func(key string) bool

// PrefixPredicate accepts keys starting with any of prefixes (case-sensitive).
// Empty prefixes are ignored; with no usable prefix no key is scorable.
func PrefixPredicate(prefixes ...string) KeyPredicate {
	var ps []string
	for _, p := range prefixes {
		if p != "" {
			ps = append(ps, p)
		}
	}
	return func(key string) bool {
		for _, p := range ps {
			if strings.HasPrefix(key, p) {
				return true
			}
		}
		return false
	}
}
