// Package command classifies one line of interactive input.
//
// A line is either a task label or a slash command. Built-in commands
// are single letters; any other word after a slash names assistant
// profiles by prefix.
package command

import "strings"

// Kind identifies what a line asks for.
type Kind int

// Line kinds.
const (
	Empty      Kind = iota // blank line, ignored
	Task                   // plain text: log a task
	Backdate               // /t <timestamp>
	Edit                   // /e <index>
	Ask                    // /d [message]
	Choose                 // /c <prefix>
	Assistants             // /a
	List                   // /l
	Summary                // /s, reserved
	Write                  // /w
	Profile                // /<prefix> [message]
)

var kindNames = map[Kind]string{
	Empty:      "empty",
	Task:       "task",
	Backdate:   "backdate",
	Edit:       "edit",
	Ask:        "ask",
	Choose:     "choose",
	Assistants: "assistants",
	List:       "list",
	Summary:    "summary",
	Write:      "write",
	Profile:    "profile",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

var builtins = map[string]Kind{
	"t": Backdate,
	"e": Edit,
	"d": Ask,
	"c": Choose,
	"a": Assistants,
	"l": List,
	"s": Summary,
	"w": Write,
}

// Builtin describes one built-in command for help output.
type Builtin struct {
	Word  string
	Usage string
	Help  string
}

// Builtins lists the built-in commands in display order.
func Builtins() []Builtin {
	return []Builtin{
		{"t", "/t <YYYY-MM-DD HH:MM:SS>", "log a task at an earlier moment"},
		{"e", "/e <index>", "rename the entry at index"},
		{"d", "/d [message]", "ask the active assistant"},
		{"c", "/c <prefix>", "choose the assistant used by /d"},
		{"a", "/a", "list assistants"},
		{"l", "/l", "list recent entries"},
		{"s", "/s", "reserved"},
		{"w", "/w", "save the log now"},
	}
}

// Command is a parsed input line.
type Command struct {
	Kind Kind
	// Word is the text after the slash up to the first space. Empty for
	// tasks.
	Word string
	// Arg is the remainder after the word, trimmed. For tasks it is the
	// whole line, untouched.
	Arg string
}

// Parse classifies a raw line. A blank line is Empty. Only a line whose
// first character is "/" is a command; anything else, including a lone
// "/", is a task logged exactly as typed.
func Parse(line string) Command {
	if strings.TrimSpace(line) == "" {
		return Command{Kind: Empty}
	}
	if line[0] != '/' || len(strings.TrimSpace(line)) == 1 {
		return Command{Kind: Task, Arg: line}
	}

	word, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	if word == "" {
		// "/ foo": no word after the slash.
		return Command{Kind: Task, Arg: line}
	}
	if kind, ok := builtins[word]; ok {
		return Command{Kind: kind, Word: word, Arg: arg}
	}
	return Command{Kind: Profile, Word: word, Arg: arg}
}
