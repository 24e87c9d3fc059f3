package driver

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"ferrite/internal/mir"
	"ferrite/internal/regions"
)

// Digest is a SHA-256 content hash used as the disk-cache key.
type Digest [sha256.Size]byte

func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}

// IsZero reports whether the digest is the all-zero value.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// BodyDigest hashes everything the check outcome depends on: the body's
// stable textual form plus the universal-region environment it runs under.
func BodyDigest(body *mir.Body, tbl *regions.Table) Digest {
	var sb strings.Builder
	sb.WriteString(mir.Print(body))
	sb.WriteByte(0)
	if tbl != nil {
		for v := 0; v < tbl.NumUniversals(); v++ {
			vid := regions.Vid(v) //nolint:gosec // table vids are int32-bounded
			fmt.Fprintf(&sb, "u%d=%s,%s,%t;", v, tbl.Name(vid), tbl.UpvarName(vid), tbl.IsLocal(vid))
		}
		tbl.EachKnownOutlives(func(sup, sub regions.Vid) {
			fmt.Fprintf(&sb, "o%d:%d;", sup, sub)
		})
	}
	return sha256.Sum256([]byte(sb.String()))
}
