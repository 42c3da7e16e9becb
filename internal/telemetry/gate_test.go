package telemetry

import "testing"

func TestGateDevelopmentAllowsAnonymous(t *testing.T) {
	rec := &recorder{}
	g := NewGate(Development, rec)
	if err := g.Authorize(Caller{Peer: "10.0.0.1:5555"}); err != nil {
		t.Fatalf("development should allow anonymous: %v", err)
	}
	if len(rec.recs) != 0 {
		t.Fatalf("no audit expected, got %+v", rec.recs)
	}
}

func TestGateProductionDeniesAnonymous(t *testing.T) {
	rec := &recorder{}
	g := NewGate(Production, rec)
	err := g.Authorize(Caller{Peer: "10.0.0.1:5555"})
	if !IsUnauthenticated(err) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	denied := rec.find("feed.access_denied")
	if len(denied) != 1 {
		t.Fatalf("expected one audit record, got %d", len(denied))
	}
	if denied[0].level != "warn" {
		t.Fatalf("audit level=%s", denied[0].level)
	}
	if denied[0].fields["peer"] != "10.0.0.1:5555" {
		t.Fatalf("audit missing peer: %v", denied[0].fields)
	}
	for k := range denied[0].fields {
		if k != "peer" && k != "environment" {
			t.Fatalf("audit record carries unexpected field %q", k)
		}
	}
}

func TestGateProductionAllowsIdentity(t *testing.T) {
	g := NewGate(Production, nil)
	c := Caller{Identity: &Identity{Subject: "ops", Method: "api_key"}, Peer: "p"}
	if err := g.Authorize(c); err != nil {
		t.Fatalf("identity should pass: %v", err)
	}
}

func TestParseEnvironment(t *testing.T) {
	for in, want := range map[string]Environment{
		"":            Production,
		"prod":        Production,
		"Production":  Production,
		"dev":         Development,
		"development": Development,
	} {
		got, err := ParseEnvironment(in)
		if err != nil || got != want {
			t.Fatalf("ParseEnvironment(%q)=%v,%v", in, got, err)
		}
	}
	if _, err := ParseEnvironment("staging"); err == nil {
		t.Fatalf("expected error for unknown environment")
	}
}
