package command

import "strings"

// Command is a tokenized input line.
type Command struct {
	Name  string
	Args  []string
	Flags map[string]bool
}

// Parse splits line on whitespace. The first token, lowercased, is the
// command; tokens starting with "-" become flags; the rest are arguments in
// order. There is no quoting.
func Parse(line string) Command {
	cmd := Command{Flags: map[string]bool{}}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return cmd
	}

	cmd.Name = strings.ToLower(fields[0])
	for _, tok := range fields[1:] {
		if strings.HasPrefix(tok, "-") {
			cmd.Flags[strings.TrimLeft(tok, "-")] = true
			continue
		}
		cmd.Args = append(cmd.Args, tok)
	}
	return cmd
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}
