package prurl

import "testing"

func TestParseBareNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"123", 123},
		{"#42", 42},
		{"  7  ", 7},
	}
	for _, tt := range tests {
		ref, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.input, err)
			continue
		}
		if ref.Number != tt.want {
			t.Errorf("Parse(%q).Number = %d, want %d", tt.input, ref.Number, tt.want)
		}
		if ref.Owner != "" || ref.Repo != "" {
			t.Errorf("Parse(%q) should leave owner/repo empty, got %s/%s", tt.input, ref.Owner, ref.Repo)
		}
	}
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		input  string
		host   string
		owner  string
		repo   string
		number int
	}{
		{"https://github.com/octo/widgets/pull/55", "github.com", "octo", "widgets", 55},
		{"https://github.com/octo/widgets/pull/55/files", "github.com", "octo", "widgets", 55},
		{"https://github.example.com/team/service/pull/9", "github.example.com", "team", "service", 9},
	}
	for _, tt := range tests {
		ref, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.input, err)
			continue
		}
		if ref.Host != tt.host || ref.Owner != tt.owner || ref.Repo != tt.repo || ref.Number != tt.number {
			t.Errorf("Parse(%q) = %+v, want %s %s/%s#%d", tt.input, ref, tt.host, tt.owner, tt.repo, tt.number)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"",
		"0",
		"-5",
		"https://github.com/octo/widgets",
		"https://github.com/octo/widgets/issues/55",
		"not a url at all",
	}
	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should return error", input)
		}
	}
}

func TestParseRemote(t *testing.T) {
	tests := []struct {
		input string
		host  string
		owner string
		repo  string
	}{
		{"git@github.com:octo/widgets.git", "github.com", "octo", "widgets"},
		{"git@github.com:octo/widgets", "github.com", "octo", "widgets"},
		{"ssh://git@github.example.com/team/service.git", "github.example.com", "team", "service"},
		{"https://github.com/octo/widgets.git", "github.com", "octo", "widgets"},
		{"https://github.com/octo/widgets", "github.com", "octo", "widgets"},
		{"http://github.example.com/team/service/", "github.example.com", "team", "service"},
	}
	for _, tt := range tests {
		host, owner, repo, err := ParseRemote(tt.input)
		if err != nil {
			t.Errorf("ParseRemote(%q) returned error: %v", tt.input, err)
			continue
		}
		if host != tt.host || owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRemote(%q) = %s %s/%s, want %s %s/%s",
				tt.input, host, owner, repo, tt.host, tt.owner, tt.repo)
		}
	}
}

func TestParseRemoteInvalid(t *testing.T) {
	inputs := []string{"", "ftp://example.com/a/b", "just-a-string"}
	for _, input := range inputs {
		if _, _, _, err := ParseRemote(input); err == nil {
			t.Errorf("ParseRemote(%q) should return error", input)
		}
	}
}

func TestPRRefString(t *testing.T) {
	ref := &PRRef{Host: "github.com", Owner: "octo", Repo: "widgets", Number: 12}
	if got := ref.String(); got != "octo/widgets#12" {
		t.Errorf("String() = %q", got)
	}
}
