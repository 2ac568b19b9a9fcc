package philosophy

import (
	"errors"
	"strings"
	"testing"
)

func TestProtocolCFSMs(t *testing.T) {
	sys, err := ProtocolCFSMs(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(sys.CFSMs) != 6 {
		t.Fatalf("expecting 6 machines but got %d", len(sys.CFSMs))
	}
	for _, m := range sys.CFSMs {
		if m.IsEmpty() {
			t.Errorf("machine %d (%s) is empty", m.ID, m.Comment)
		}
	}
	out := sys.String()
	for _, msg := range []string{msgLift, msgGrant, msgDrop} {
		if !strings.Contains(out, msg) {
			t.Errorf("system should mention %q", msg)
		}
	}
	if _, err := ProtocolCFSMs(1); !errors.Is(err, ErrPartySize) {
		t.Errorf("expecting ErrPartySize but got %v", err)
	}
}

func TestProtocolMiGo(t *testing.T) {
	prog, err := ProtocolMiGo(4)
	if err != nil {
		t.Fatal(err)
	}
	out := prog.String()
	for _, want := range []string{"philosopher", "c3", "send left", "recv right", "spawn"} {
		if !strings.Contains(out, want) {
			t.Errorf("program should contain %q:\n%s", want, out)
		}
	}
	if _, err := ProtocolMiGo(0); !errors.Is(err, ErrPartySize) {
		t.Errorf("expecting ErrPartySize but got %v", err)
	}
}
