package telemetry

import (
	"strings"
	"testing"
)

func TestRecordsTypedView(t *testing.T) {
	csv := "Driver,LapNumber,SessionTime,Speed,nGear,Brake,DriverAhead,DistanceToDriverAhead\n" +
		"VER,3,2537.5,312.0,8,False,HAM,12.5\n" +
		"VER,3,2538.1,305.5,7,True,None,\n"
	f, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	recs := Records(f)
	if len(recs) != 2 {
		t.Fatalf("len = %d", len(recs))
	}

	r := recs[0]
	if r.Driver != "VER" || r.LapNumber != 3 || r.SessionTime != 2537.5 {
		t.Errorf("identity fields = %+v", r)
	}
	if r.Speed != 312.0 || r.Gear != 8 || r.Brake {
		t.Errorf("channel fields = %+v", r)
	}
	if r.DriverAhead == nil || *r.DriverAhead != "HAM" {
		t.Errorf("DriverAhead = %v", r.DriverAhead)
	}
	if r.DistDriverAhead == nil || *r.DistDriverAhead != 12.5 {
		t.Errorf("DistDriverAhead = %v", r.DistDriverAhead)
	}

	// Sentinel row: "None" is a real value, gap stays null.
	r2 := recs[1]
	if r2.DriverAhead == nil || *r2.DriverAhead != NoDriverAhead {
		t.Errorf("DriverAhead = %v, want sentinel", r2.DriverAhead)
	}
	if r2.DistDriverAhead != nil {
		t.Errorf("DistDriverAhead = %v, want nil", *r2.DistDriverAhead)
	}
	if !r2.Brake {
		t.Error("Brake should be true")
	}
}

func TestRecordsFloatLapNumber(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("LapNumber\n3.0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := Records(f)[0].LapNumber; got != 3 {
		t.Errorf("LapNumber = %d, want 3", got)
	}
}
