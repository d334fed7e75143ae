package command

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: Empty}},
		{"   ", Command{Kind: Empty}},
		{"write report", Command{Kind: Task, Arg: "write report"}},
		{"  padded task  ", Command{Kind: Task, Arg: "  padded task  "}},
		{" buy milk  ", Command{Kind: Task, Arg: " buy milk  "}},
		{"  /l", Command{Kind: Task, Arg: "  /l"}},
		{"\t/w", Command{Kind: Task, Arg: "\t/w"}},
		{"/  ", Command{Kind: Task, Arg: "/  "}},
		{"/", Command{Kind: Task, Arg: "/"}},
		{"/ x", Command{Kind: Task, Arg: "/ x"}},
		{"/t 2024-01-01 09:30:00", Command{Kind: Backdate, Word: "t", Arg: "2024-01-01 09:30:00"}},
		{"/e 3", Command{Kind: Edit, Word: "e", Arg: "3"}},
		{"/d", Command{Kind: Ask, Word: "d"}},
		{"/d what did I do?", Command{Kind: Ask, Word: "d", Arg: "what did I do?"}},
		{"/c rev", Command{Kind: Choose, Word: "c", Arg: "rev"}},
		{"/a", Command{Kind: Assistants, Word: "a"}},
		{"/l", Command{Kind: List, Word: "l"}},
		{"/s   hello  ", Command{Kind: Summary, Word: "s", Arg: "hello"}},
		{"/w", Command{Kind: Write, Word: "w"}},
		{"/rev", Command{Kind: Profile, Word: "rev"}},
		{"/rev how long?", Command{Kind: Profile, Word: "rev", Arg: "how long?"}},
		{"/T", Command{Kind: Profile, Word: "T"}},
		{"/list", Command{Kind: Profile, Word: "list"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := Parse(tt.line); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if got := Backdate.String(); got != "backdate" {
		t.Errorf("Backdate.String() = %q", got)
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}

func TestBuiltinsCoverParse(t *testing.T) {
	for _, b := range Builtins() {
		got := Parse("/" + b.Word)
		if got.Kind == Profile || got.Kind == Task {
			t.Errorf("builtin /%s parsed as %s", b.Word, got.Kind)
		}
	}
}
