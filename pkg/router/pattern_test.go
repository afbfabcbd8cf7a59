package router

import "testing"

func TestCompilePatternErrors(t *testing.T) {
	tests := []string{
		"about",
		"/docs/*rest/more",
		"/items/:id:float",
		"/items/:",
		"/a/:id/:id",
		"/a//b",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if _, err := compilePattern(raw); err == nil {
				t.Errorf("compilePattern(%q) error = nil, want error", raw)
			}
		})
	}
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
		params  Params
	}{
		{"/", "/", true, nil},
		{"/", "/about", false, nil},
		{"/about", "/about", true, nil},
		{"/about", "/about/", true, nil},
		{"/about", "/about/team", false, nil},
		{"/items/:id", "/items/abc", true, Params{"id": "abc"}},
		{"/items/:id:int", "/items/42", true, Params{"id": "42"}},
		{"/items/:id:int", "/items/abc", false, nil},
		{"/items/:id:uint", "/items/-1", false, nil},
		{"/u/:id:uuid", "/u/123e4567-e89b-12d3-a456-426614174000", true, Params{"id": "123e4567-e89b-12d3-a456-426614174000"}},
		{"/u/:id:uuid", "/u/not-a-uuid", false, nil},
		{"/docs/*rest", "/docs/a/b/c", true, Params{"rest": "a/b/c"}},
		{"/docs/*rest", "/docs", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			p, err := compilePattern(tt.pattern)
			if err != nil {
				t.Fatalf("compilePattern() error = %v", err)
			}
			params, ok := p.match(splitPath(tt.path))
			if ok != tt.match {
				t.Fatalf("match = %v, want %v", ok, tt.match)
			}
			for k, want := range tt.params {
				if got := params.Get(k); got != want {
					t.Errorf("params[%q] = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestDecodePath(t *testing.T) {
	parts, err := decodePath("/files/hello%20world")
	if err != nil {
		t.Fatalf("decodePath() error = %v", err)
	}
	if len(parts) != 2 || parts[1] != "hello world" {
		t.Errorf("parts = %q, want [files, hello world]", parts)
	}

	for _, bad := range []string{"/bad%zz", "/nul%00"} {
		if _, err := decodePath(bad); err == nil {
			t.Errorf("decodePath(%q) error = nil, want error", bad)
		}
	}
}

func TestParamsInt(t *testing.T) {
	p := Params{"id": "7", "name": "x"}
	if n, err := p.Int("id"); err != nil || n != 7 {
		t.Errorf("Int(id) = %d, %v, want 7", n, err)
	}
	if _, err := p.Int("name"); err == nil {
		t.Error("Int(name) error = nil, want error")
	}
	if _, err := p.Int("missing"); err == nil {
		t.Error("Int(missing) error = nil, want error")
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("/login?next=%2Fchat")
	if err != nil {
		t.Fatalf("ParseLocation() error = %v", err)
	}
	if loc.String() != "/login?next=%2Fchat" {
		t.Errorf("String() = %q", loc.String())
	}

	for _, bad := range []string{"https://evil.example/", "//evil.example/x", "relative"} {
		if _, err := ParseLocation(bad); err == nil {
			t.Errorf("ParseLocation(%q) error = nil, want error", bad)
		}
	}
}
