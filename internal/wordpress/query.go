package wordpress

import (
	"net/url"
	"strings"
)

// query keeps parameters in insertion order and lets each one choose its
// encoding, so bare flags like _embed and verbatim slugs survive as written.
type query []string

func (q query) flag(key string) query {
	return append(q, key)
}

func (q query) raw(key, value string) query {
	return append(q, key+"="+value)
}

func (q query) escaped(key, value string) query {
	return append(q, key+"="+url.QueryEscape(value))
}

func (q query) String() string {
	return strings.Join(q, "&")
}
