package driver_test

import (
	"testing"

	"ferrite/internal/driver"
	"ferrite/internal/testkit"
)

func TestBodyDigestStable(t *testing.T) {
	a := testkit.UnrelatedLifetimes()
	b := testkit.UnrelatedLifetimes()

	da := driver.BodyDigest(a.Body, a.Table)
	db := driver.BodyDigest(b.Body, b.Table)
	if da.IsZero() {
		t.Fatalf("digest must not be zero")
	}
	if da != db {
		t.Fatalf("identical bodies must digest identically: %s vs %s", da, db)
	}
}

func TestBodyDigestSensitivity(t *testing.T) {
	a := testkit.UnrelatedLifetimes()
	b := testkit.DestructorObservesRegion()
	if driver.BodyDigest(a.Body, a.Table) == driver.BodyDigest(b.Body, b.Table) {
		t.Fatalf("distinct bodies collided")
	}

	// The universal-region environment is part of the key: a declared
	// outlives changes the check outcome, so it must change the digest.
	c := testkit.UnrelatedLifetimes()
	before := driver.BodyDigest(c.Body, c.Table)
	c.Table.AddKnownOutlives(1, 2)
	after := driver.BodyDigest(c.Body, c.Table)
	if before == after {
		t.Fatalf("declared outlives must be part of the digest")
	}
}

func TestBodyDigestNilTable(t *testing.T) {
	fx := testkit.UnrelatedLifetimes()
	with := driver.BodyDigest(fx.Body, fx.Table)
	without := driver.BodyDigest(fx.Body, nil)
	if with == without {
		t.Fatalf("the table contribution went missing")
	}
}
