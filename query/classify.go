package query

import (
	"errors"
	"strings"
)

// Kind is the execution strategy selected for a command.
type Kind int

const (
	// Fallback covers text that starts with no recognized keyword (CTEs,
	// batches, DDL). It executes exactly like Select.
	Fallback Kind = iota
	Select
	Mutation
	StoredProcedure
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "select"
	case Mutation:
		return "mutation"
	case StoredProcedure:
		return "procedure"
	default:
		return "fallback"
	}
}

// ReturnsRows reports whether commands of this kind are read as result sets.
func (k Kind) ReturnsRows() bool { return k != Mutation }

// ErrUnsupportedCommand is returned when a policy refuses Fallback commands.
var ErrUnsupportedCommand = errors.New("unsupported type of SQL command, only select, insert, update, delete and exec are supported")

const procedurePrefix = "exec "

// Leading keywords, matched case-insensitively. Each includes its trailing
// space so that identifiers such as "selection" do not match.
var prefixes = []struct {
	prefix string
	kind   Kind
}{
	{"select ", Select},
	{"insert ", Mutation},
	{"update ", Mutation},
	{"delete ", Mutation},
	{procedurePrefix, StoredProcedure},
}

// Classify returns the command kind of sql. Surrounding whitespace is
// ignored.
func Classify(sql string) Kind {
	text := strings.TrimSpace(sql)
	for _, p := range prefixes {
		if hasPrefixFold(text, p.prefix) {
			return p.kind
		}
	}
	return Fallback
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// Command is a classified statement, ready to be bound and executed.
type Command struct {
	Kind Kind
	// Text is the trimmed source text.
	Text string
	// Procedure is the procedure name for StoredProcedure commands.
	Procedure string
}

// Parse trims and classifies source under the given policy.
func Parse(source string, policy Policy) (Command, error) {
	text := strings.TrimSpace(source)
	if text == "" {
		return Command{}, errors.New("empty SQL command")
	}

	cmd := Command{Kind: Classify(text), Text: text}
	switch cmd.Kind {
	case StoredProcedure:
		cmd.Procedure = strings.TrimSpace(text[len(procedurePrefix):])
	case Fallback:
		if policy.RejectUnknown {
			return Command{}, ErrUnsupportedCommand
		}
	}
	return cmd, nil
}
