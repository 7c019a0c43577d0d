package engine

import "testing"

func TestKeyPoolDefaultOnly(t *testing.T) {
	p := NewKeyPool("default", "")

	if p.UsingUserKeys() {
		t.Error("Expected the default key to be active")
	}
	if p.Len() != 1 {
		t.Errorf("Expected pool length 1, got %d", p.Len())
	}
	for i := 0; i < 3; i++ {
		if key := p.Next(); key != "default" {
			t.Errorf("Expected default key, got %s", key)
		}
	}
}

func TestKeyPoolRotatesUserKeys(t *testing.T) {
	p := NewKeyPool("default", "key1\nkey2,key3")

	if !p.UsingUserKeys() {
		t.Error("Expected user keys to be active")
	}
	if p.Len() != 3 {
		t.Errorf("Expected pool length 3, got %d", p.Len())
	}

	want := []string{"key1", "key2", "key3", "key1"}
	for i, w := range want {
		if key := p.Next(); key != w {
			t.Errorf("Rotation step %d: expected %s, got %s", i, w, key)
		}
	}
}

func TestKeyPoolTrimsBlankEntries(t *testing.T) {
	p := NewKeyPool("default", " key1 ,\n, ,key2\n")

	if p.Len() != 2 {
		t.Errorf("Expected 2 keys, got %d", p.Len())
	}
	if key := p.Next(); key != "key1" {
		t.Errorf("Expected trimmed key1, got %q", key)
	}
}

func TestKeyPoolSetUserKeysResets(t *testing.T) {
	p := NewKeyPool("default", "key1,key2")
	p.Next()

	p.SetUserKeys("key3")
	if key := p.Next(); key != "key3" {
		t.Errorf("Expected key3 after replacement, got %s", key)
	}

	p.SetUserKeys("")
	if p.UsingUserKeys() {
		t.Error("Expected fallback to the default key")
	}
	if key := p.Next(); key != "default" {
		t.Errorf("Expected default key, got %s", key)
	}
}

func TestKeyPoolStatus(t *testing.T) {
	p := NewKeyPool("default", "")
	if got := p.Status(); got != "Using the default Gemini key." {
		t.Errorf("Unexpected status %q", got)
	}
	p.SetUserKeys("key1")
	if got := p.Status(); got != "Using your API keys." {
		t.Errorf("Unexpected status %q", got)
	}
}
