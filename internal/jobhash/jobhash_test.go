package jobhash

import "testing"

func TestHashDeterministic(t *testing.T) {
	a := Hash("We are hiring a Go engineer", "Go Engineer", "Acme")
	b := Hash("We are hiring a Go engineer", "Go Engineer", "Acme")
	if a != b {
		t.Errorf("identical inputs produced different hashes: %q vs %q", a, b)
	}
}

func TestHashCaseAndWhitespaceInsensitive(t *testing.T) {
	tests := []struct {
		name               string
		desc1, title1, co1 string
		desc2, title2, co2 string
	}{
		{
			name:  "case differences",
			desc1: "Desc", title1: "Foo", co1: "Bar",
			desc2: "desc", title2: "foo", co2: "bar",
		},
		{
			name:  "surrounding whitespace",
			desc1: " Desc ", title1: "Foo", co1: "Bar",
			desc2: "Desc", title2: "  Foo", co2: "Bar  ",
		},
		{
			name:  "mixed",
			desc1: "  Building APIs ", title1: "Backend Dev", co1: "ACME",
			desc2: "building apis", title2: " backend dev ", co2: "acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Hash(tt.desc1, tt.title1, tt.co1)
			b := Hash(tt.desc2, tt.title2, tt.co2)
			if a != b {
				t.Errorf("equivalent inputs produced different hashes: %q vs %q", a, b)
			}
		})
	}
}

func TestHashOrderSensitive(t *testing.T) {
	a := Hash("desc", "title", "company")
	b := Hash("desc", "company", "title")
	if a == b {
		t.Error("swapping title and company should change the hash")
	}
}

func TestHashDistinguishesInputs(t *testing.T) {
	a := Hash("first description", "Engineer", "Acme")
	b := Hash("second description", "Engineer", "Acme")
	if a == b {
		t.Error("different descriptions should normally produce different hashes")
	}
}

func TestHashBase36Alphabet(t *testing.T) {
	h := Hash("some description text", "Title", "Company")
	if h == "" {
		t.Fatal("hash must not be empty")
	}
	for _, ch := range h {
		if !(ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z') {
			t.Errorf("unexpected character %q in base-36 hash %q", ch, h)
		}
	}
}
