package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fzft/go-chainset/deps/linenoise"
)

type CommandFlags uint8

const (
	CmdWrite    CommandFlags = 1 << iota // May change the set.
	CmdReadOnly                          // Only reads the set.
	CmdShell                             // Acts on the shell, not the set.
)

func (f CommandFlags) String() string {
	switch {
	case f&CmdWrite != 0:
		return "write"
	case f&CmdReadOnly != 0:
		return "readonly"
	case f&CmdShell != 0:
		return "shell"
	}
	return "none"
}

type command struct {
	name string
	// arity counts argv including the command name. A negative value means
	// at least -arity arguments.
	arity int
	flags CommandFlags
	args  string
	help  string
	proc  func(sh *Shell, argv []string) error
}

var commandTable map[string]*command

func init() {
	commandTable = make(map[string]*command)
	for _, c := range []*command{
		{"insert", -2, CmdWrite, "key [key ...]", "Insert keys, reply with the number newly added", insertCommand},
		{"erase", -2, CmdWrite, "key [key ...]", "Erase keys, reply with the number removed", eraseCommand},
		{"clear", 1, CmdWrite, "", "Remove every key and reset the table", clearCommand},
		{"restore", 1, CmdWrite, "", "Replace the set with the last snapshot", restoreCommand},
		{"find", 2, CmdReadOnly, "key", "Reply with the stored key or (nil)", findCommand},
		{"count", 2, CmdReadOnly, "key", "Reply with 1 if key is present, else 0", countCommand},
		{"contains", 2, CmdReadOnly, "key", "Reply with true if key is present", containsCommand},
		{"size", 1, CmdReadOnly, "", "Number of keys", sizeCommand},
		{"empty", 1, CmdReadOnly, "", "Whether the set has no keys", emptyCommand},
		{"cap", 1, CmdReadOnly, "", "Number of buckets", capCommand},
		{"keys", 1, CmdReadOnly, "", "List keys in iteration order", keysCommand},
		{"dump", 1, CmdReadOnly, "", "Print the table bucket by bucket", dumpCommand},
		{"stats", 1, CmdReadOnly, "", "Print table statistics", statsCommand},
		{"snapshot", 1, CmdReadOnly, "", "Keep a copy of the set", snapshotCommand},
		{"equal", 1, CmdReadOnly, "", "Compare the set with the last snapshot", equalCommand},
		{"clear-screen", 1, CmdShell, "", "Clear the terminal", clearScreenCommand},
		{"help", -1, CmdShell, "[command]", "Show commands", helpCommand},
		{"quit", 1, CmdShell, "", "Leave the shell", quitCommand},
		{"exit", 1, CmdShell, "", "Leave the shell", quitCommand},
	} {
		commandTable[c.name] = c
	}
}

func lookupCommand(name string) (*command, error) {
	c, ok := commandTable[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, name)
	}
	return c, nil
}

// checkArity reports whether argc arguments satisfy c.
func (c *command) checkArity(argc int) error {
	if (c.arity > 0 && argc != c.arity) || argc < -c.arity {
		return fmt.Errorf("%w for '%s' command", ErrArity, c.name)
	}
	return nil
}

func commandNames() []string {
	names := make([]string, 0, len(commandTable))
	for name := range commandTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func insertCommand(sh *Shell, argv []string) error {
	added := 0
	for _, raw := range argv[1:] {
		inserted, err := sh.keys.Insert(raw)
		if err != nil {
			return err
		}
		if inserted {
			added++
		}
	}
	sh.replyInteger(added)
	return nil
}

func eraseCommand(sh *Shell, argv []string) error {
	removed := 0
	for _, raw := range argv[1:] {
		n, err := sh.keys.Erase(raw)
		if err != nil {
			return err
		}
		removed += n
	}
	sh.replyInteger(removed)
	return nil
}

func clearCommand(sh *Shell, _ []string) error {
	sh.keys.Clear()
	sh.replyOK()
	return nil
}

func restoreCommand(sh *Shell, _ []string) error {
	if err := sh.keys.Restore(); err != nil {
		return err
	}
	sh.replyOK()
	return nil
}

func findCommand(sh *Shell, argv []string) error {
	key, found, err := sh.keys.Find(argv[1])
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(sh.out, "(nil)")
		return nil
	}
	fmt.Fprintf(sh.out, "%q\n", key)
	return nil
}

func countCommand(sh *Shell, argv []string) error {
	n, err := sh.keys.Count(argv[1])
	if err != nil {
		return err
	}
	sh.replyInteger(n)
	return nil
}

func containsCommand(sh *Shell, argv []string) error {
	n, err := sh.keys.Count(argv[1])
	if err != nil {
		return err
	}
	sh.replyBool(n == 1)
	return nil
}

func sizeCommand(sh *Shell, _ []string) error {
	sh.replyInteger(sh.keys.Len())
	return nil
}

func emptyCommand(sh *Shell, _ []string) error {
	sh.replyBool(sh.keys.Len() == 0)
	return nil
}

func capCommand(sh *Shell, _ []string) error {
	sh.replyInteger(sh.keys.Cap())
	return nil
}

func keysCommand(sh *Shell, _ []string) error {
	keys := sh.keys.Keys()
	if len(keys) == 0 {
		fmt.Fprintln(sh.out, "(empty set)")
		return nil
	}
	for i, k := range keys {
		fmt.Fprintf(sh.out, "%d) %q\n", i+1, k)
	}
	return nil
}

func dumpCommand(sh *Shell, _ []string) error {
	return sh.keys.Dump(sh.out)
}

func statsCommand(sh *Shell, _ []string) error {
	st := sh.keys.Stats()
	fmt.Fprintf(sh.out, "capacity:%d\n", st.Capacity)
	fmt.Fprintf(sh.out, "size:%d\n", st.Size)
	fmt.Fprintf(sh.out, "load_factor:%.4f\n", st.LoadFactor)
	fmt.Fprintf(sh.out, "max_load_factor:%.4f\n", st.MaxLoadFactor)
	fmt.Fprintf(sh.out, "used_buckets:%d\n", st.UsedBuckets)
	fmt.Fprintf(sh.out, "longest_chain:%d\n", st.LongestChain)
	fmt.Fprintf(sh.out, "rehashes:%d\n", st.Rehashes)
	return nil
}

func snapshotCommand(sh *Shell, _ []string) error {
	sh.keys.Snapshot()
	sh.replyOK()
	return nil
}

func equalCommand(sh *Shell, _ []string) error {
	eq, err := sh.keys.EqualSnapshot()
	if err != nil {
		return err
	}
	sh.replyBool(eq)
	return nil
}

func helpCommand(sh *Shell, argv []string) error {
	names := commandNames()
	if len(argv) > 1 {
		c, err := lookupCommand(argv[1])
		if err != nil {
			return err
		}
		names = []string{c.name}
	}
	for _, name := range names {
		c := commandTable[name]
		fmt.Fprintf(sh.out, "%-12s %-14s %-8s %s\n", c.name, c.args, c.flags, c.help)
	}
	return nil
}

func clearScreenCommand(sh *Shell, _ []string) error {
	return linenoise.ClearScreen(sh.out)
}

func quitCommand(*Shell, []string) error {
	return ErrQuit
}
