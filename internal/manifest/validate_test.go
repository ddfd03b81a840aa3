package manifest

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMissingRequiredPorts(t *testing.T) {
	model := ModelDecl{
		Ports: []PortDecl{
			{Name: "a", Required: true},
			{Name: "b", Required: false},
			{Name: "c", Required: true},
		},
	}

	bound := map[string]json.RawMessage{"b": json.RawMessage(`1`), "c": json.RawMessage(`2`)}

	got := MissingRequiredPorts(model, bound)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("MissingRequiredPorts() = %v, want [a]", got)
	}
}

func TestMissingRequiredPortsNoneMissing(t *testing.T) {
	model := ModelDecl{Ports: []PortDecl{{Name: "a", Required: true}}}
	bound := map[string]json.RawMessage{"a": json.RawMessage(`1`)}

	if got := MissingRequiredPorts(model, bound); len(got) != 0 {
		t.Fatalf("MissingRequiredPorts() = %v, want none", got)
	}
}

func TestMissingPortsWarningMentionsEachName(t *testing.T) {
	msg := MissingPortsWarning([]string{"alpha", "beta"})
	for _, want := range []string{"Missing", "required", "port", "alpha", "beta"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("warning %q missing expected substring %q", msg, want)
		}
	}
}
