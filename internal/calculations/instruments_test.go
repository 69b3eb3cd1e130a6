package calculations

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInstrumentsReturnCopies(t *testing.T) {
	want := []RateMode{RatePre, RatePost}

	all := Instruments()
	for i := range all {
		for j := range all[i].RateModes {
			all[i].RateModes[j] = "broken"
		}
	}
	for _, d := range FamilyMembers(FamilyFixedIncome) {
		if d.Type == InstrumentLCI {
			d.RateModes[0] = "broken"
		}
	}
	looked, ok := LookupInstrument(InstrumentDebenture)
	if !ok {
		t.Fatal("debenture must be registered")
	}
	looked.RateModes[1] = "broken"

	for _, typ := range []InstrumentType{InstrumentCDB, InstrumentLCI, InstrumentDebenture} {
		d, ok := LookupInstrument(typ)
		if !ok {
			t.Fatalf("%s must be registered", typ)
		}
		if diff := cmp.Diff(want, d.RateModes); diff != "" {
			t.Errorf("%s rate modes changed (-want +got):\n%s", typ, diff)
		}
		if !d.AllowsMode(RatePre) || !d.AllowsMode(RatePost) {
			t.Errorf("%s must allow both rate modes", typ)
		}
	}
}
