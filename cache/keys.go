package cache

import (
	"strconv"
	"time"

	"github.com/Konsultn-Engineering/edgesql/query"
	"github.com/Konsultn-Engineering/edgesql/utils"
)

// Key identifies a compiled query by everything that affects compilation.
type Key struct {
	Source           string
	ConnectionString string
	Timeout          time.Duration
	Policy           query.Policy
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (k Key) policyBits() string {
	return flag(k.Policy.RejectUnknown) + flag(k.Policy.NarrowCoercion) + flag(k.Policy.FirstResultOnly)
}

// Fingerprint hashes the key for use as the LRU key.
func (k Key) Fingerprint() uint64 {
	h := utils.Fingerprint(k.Source, k.ConnectionString, k.policyBits())
	return utils.Mix64(h, uint64(k.Timeout))
}

// String is the exact identity used to rule out fingerprint collisions.
func (k Key) String() string {
	return k.policyBits() + "|" + strconv.FormatInt(int64(k.Timeout), 10) + "|" +
		strconv.Itoa(len(k.ConnectionString)) + "|" + k.ConnectionString + "|" + k.Source
}
