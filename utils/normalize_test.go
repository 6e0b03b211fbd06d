package utils

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123 Main St.", "123 main street"},
		{"123  MAIN   STREET ", "123 main street"},
		{"45 Park Ave, Suite 2", "45 park avenue suite 2"},
		{"9 Elm Rd; #3", "9 elm road 3"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeAddress(tc.in); got != tc.want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeAddressEquivalentSpellings(t *testing.T) {
	a := NormalizeAddress("123 Main St.")
	b := NormalizeAddress("123 main street")
	if a != b {
		t.Errorf("equivalent addresses normalize differently: %q vs %q", a, b)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (212) 555-0100", "12125550100"},
		{"12125550100", "12125550100"},
		{"no digits", ""},
	}
	for _, tc := range tests {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDTOTrimsStrings(t *testing.T) {
	dto := struct {
		Title string
		City  string
		Keep  int
	}{"  hello  ", "\tParis\n", 7}
	NormalizeDTO(&dto)
	if dto.Title != "hello" || dto.City != "Paris" || dto.Keep != 7 {
		t.Errorf("NormalizeDTO = %+v", dto)
	}
}

func TestNormalizePtrDTO(t *testing.T) {
	title := "  hi  "
	dto := struct {
		Title *string
		Body  *string
	}{Title: &title}
	NormalizePtrDTO(&dto)
	if *dto.Title != "hi" {
		t.Errorf("Title = %q, want hi", *dto.Title)
	}
	if dto.Body != nil {
		t.Error("nil field was touched")
	}
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	title := "new title"
	dto := struct {
		Title *string `json:"title"`
		Body  *string `json:"body"`
		Skip  *string `json:"-"`
	}{Title: &title, Skip: &title}

	got := UpdatesFromPtrDTO(&dto, nil)
	if len(got) != 1 || got["title"] != "new title" {
		t.Errorf("UpdatesFromPtrDTO = %v", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("15", 20); got != 15 {
		t.Errorf("got %d, want 15", got)
	}
	if got := ParseIntDefault("junk", 20); got != 20 {
		t.Errorf("got %d, want 20", got)
	}
	if got := ParseIntDefault("-5", 20); got != 20 {
		t.Errorf("negative: got %d, want 20", got)
	}
}
