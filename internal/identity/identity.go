// Package identity defines the stable identity used to key menu-bar items
// across discovery, the image cache, and the UI.
package identity

import "strings"

// NullNamespace is a distinguished namespace value representing "no
// namespace". It exists so an Identity can always carry a non-empty
// namespace without resorting to a pointer or an ok-flag.
const NullNamespace = "<null>"

// Identity identifies one menu-bar item. Namespace is the identifier of the
// owning application and is never empty; Title is the item's autosave name
// and may be empty. Identities are value types: comparable, hashable, freely
// copied.
type Identity struct {
	Namespace string
	Title     string
}

// New builds an Identity, substituting NullNamespace when namespace is empty.
func New(namespace, title string) Identity {
	if namespace == "" {
		namespace = NullNamespace
	}
	return Identity{Namespace: namespace, Title: title}
}

// String returns the canonical encoding: the namespace alone, or
// "namespace:title" when the title is non-empty.
func (i Identity) String() string {
	if i.Title == "" {
		return i.Namespace
	}
	return i.Namespace + ":" + i.Title
}

// Parse decodes the canonical string form. Only the first colon delimits the
// namespace; everything after it, including further colons, is the title
// verbatim.
func Parse(s string) Identity {
	idx := strings.Index(s, ":")
	if idx < 0 {
		return New(s, "")
	}
	return New(s[:idx], s[idx+1:])
}

// NamespaceValue returns the namespace and whether it is a real (non-null)
// value.
func (i Identity) NamespaceValue() (string, bool) {
	if i.Namespace == "" || i.Namespace == NullNamespace {
		return "", false
	}
	return i.Namespace, true
}
