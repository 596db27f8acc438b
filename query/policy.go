package query

import (
	"fmt"
	"strings"
)

// Policy selects between the two historical engine behaviors.
type Policy struct {
	// RejectUnknown refuses commands that begin with no recognized keyword
	// instead of running them as queries.
	RejectUnknown bool
	// NarrowCoercion passes 16-bit integers and decimals through unchanged.
	NarrowCoercion bool
	// FirstResultOnly returns only the first result set of a query.
	FirstResultOnly bool
}

var (
	// Extended is the default: permissive classification, wide coercion and
	// multi-result aggregation.
	Extended = Policy{}
	// Classic reproduces the earlier engine.
	Classic = Policy{RejectUnknown: true, NarrowCoercion: true, FirstResultOnly: true}
)

// PolicyByName resolves "extended" or "classic"; an empty name is Extended.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "extended":
		return Extended, nil
	case "classic":
		return Classic, nil
	}
	return Policy{}, fmt.Errorf("unknown mode %q (want classic or extended)", name)
}
