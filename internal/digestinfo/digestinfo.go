// Package digestinfo holds the fixed ASN.1 DigestInfo prefixes used by
// EMSA-PKCS1-v1_5 signing. The digest bytes themselves are never stored
// here; only the DER header that precedes them.
package digestinfo

import (
	"fmt"

	"github.com/vocdoni/gofirma/pkcs1pad/internal/digestasn1"
)

func init() {
	for _, e := range table {
		if err := digestasn1.CheckPrefix(e.Prefix); err != nil {
			panic(fmt.Sprintf("digestinfo: embedded prefix for %q is malformed: %v", e.Name, err))
		}
	}
}

// Entry is an immutable (name, DER prefix) pair.
type Entry struct {
	Name   string
	Prefix []byte
}

// table is ordered, not indexed by map, so Names() is deterministic and the
// zero value of Lookup's second return is unambiguous (not found).
var table = []Entry{
	{Name: "md5", Prefix: []byte{
		0x30, 0x20, 0x30, 0x0C, 0x06, 0x08, 0x2A, 0x86, 0x48, 0x86,
		0xF7, 0x0D, 0x02, 0x05, 0x05, 0x00, 0x04, 0x10,
	}},
	{Name: "sha1", Prefix: []byte{
		0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2B, 0x0E, 0x03, 0x02,
		0x1A, 0x05, 0x00, 0x04, 0x14,
	}},
	{Name: "rmd160", Prefix: []byte{
		0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2B, 0x24, 0x03, 0x02,
		0x01, 0x05, 0x00, 0x04, 0x14,
	}},
	{Name: "sha224", Prefix: []byte{
		0x30, 0x2D, 0x30, 0x0D, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
		0x65, 0x03, 0x04, 0x02, 0x04, 0x05, 0x00, 0x04, 0x1C,
	}},
	{Name: "sha256", Prefix: []byte{
		0x30, 0x31, 0x30, 0x0D, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
		0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
	}},
	{Name: "sha384", Prefix: []byte{
		0x30, 0x41, 0x30, 0x0D, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
		0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30,
	}},
	{Name: "sha512", Prefix: []byte{
		0x30, 0x51, 0x30, 0x0D, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
		0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40,
	}},
}

// Lookup returns the entry for name and true, or the zero Entry and false
// when name is not recognized. Matching is exact and case-sensitive.
func Lookup(name string) (Entry, bool) {
	for _, e := range table {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the recognized hash names, in table order.
func Names() []string {
	names := make([]string, len(table))
	for i, e := range table {
		names[i] = e.Name
	}
	return names
}
