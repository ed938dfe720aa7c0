package catalog

import (
	"errors"
	"fmt"
)

// Kind names a collection served by the content service.
type Kind string

const (
	KindProducts    Kind = "products"
	KindRentalItems Kind = "rental-items"
	KindArticles    Kind = "articles"
)

var ErrUnknownKind = errors.New("unknown collection kind")

// Kinds returns every collection kind in page order.
func Kinds() []Kind {
	return []Kind{KindProducts, KindRentalItems, KindArticles}
}

// ParseKind maps a path segment such as "rental-items" to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Path returns the content service path for the collection.
func (k Kind) Path() string {
	return "/" + string(k)
}
