package realtime

import "testing"

func TestFilterPeers(t *testing.T) {
	raw := map[string]string{
		"u1": `{"user_id":"u1","email":"carol@example.com","name":"carol"}`,
		"u2": `{"user_id":"u2","email":"alice@example.com","name":"alice"}`,
		"u3": "{broken payload",
		"me": `{"user_id":"me","email":"self@example.com","name":"self"}`,
	}
	peers := filterPeers(raw, "me")
	if len(peers) != 2 {
		t.Fatalf("expected 2 peers, got %d: %+v", len(peers), peers)
	}
	// caller excluded, broken payload dropped, rest ordered by email
	if peers[0].Email != "alice@example.com" || peers[1].Email != "carol@example.com" {
		t.Fatalf("bad order: %+v", peers)
	}
	for _, p := range peers {
		if p.UserID == "me" {
			t.Fatal("caller must not appear in its own snapshot")
		}
	}
}

func TestFilterPeersEmpty(t *testing.T) {
	if peers := filterPeers(map[string]string{}, "me"); len(peers) != 0 {
		t.Fatalf("expected no peers, got %+v", peers)
	}
}

func TestColorFor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a", "hsl(97, 70%, 50%)"},
		{"ab", "hsl(225, 70%, 50%)"},
		{"", "hsl(0, 70%, 50%)"},
	}
	for _, c := range cases {
		if got := ColorFor(c.in); got != c.want {
			t.Errorf("ColorFor(%q): got %q, want %q", c.in, got, c.want)
		}
	}
	// same input, same color, every time
	if ColorFor("alice@example.com") != ColorFor("alice@example.com") {
		t.Fatal("color must be deterministic")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("alice@example.com"); got != "alice" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName("no-at-sign"); got != "no-at-sign" {
		t.Fatalf("got %q", got)
	}
}
