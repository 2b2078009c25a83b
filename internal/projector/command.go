package projector

import "fmt"

// Category classifies what a command does, which determines how the
// control panel lays it out and how the facade is allowed to use it.
type Category int

const (
	// CategoryPower is a power on/off command.
	CategoryPower Category = iota
	// CategorySource selects an input directly.
	CategorySource
	// CategorySourceCycle advances through an ordered list of inputs
	// one step per press (a single physical "advance" button).
	CategorySourceCycle
	// CategoryFeature triggers a one-shot vendor feature (e.g. source search).
	CategoryFeature
	// CategoryToggle flips a vendor feature on/off (e.g. blank, freeze).
	CategoryToggle
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryPower:
		return "power"
	case CategorySource:
		return "source"
	case CategorySourceCycle:
		return "source_cycle"
	case CategoryFeature:
		return "feature"
	case CategoryToggle:
		return "toggle"
	default:
		return fmt.Sprintf("Category(%d)", c)
	}
}

// TimeSentinel is the parameter value that is replaced with the
// current epoch time in milliseconds at assembly time. Commands that
// are sent twice get a fresh timestamp for the second send.
const TimeSentinel = "$$time"

// Param is a single key/value pair in a command's parameter list.
// Order is significant: some devices require parameters in a fixed
// order, and keys may repeat (the Christie protocol sends "v" twice).
type Param struct {
	Key   string
	Value string
}

// CommandSpec describes one authorized action for a projector family:
// the HTTP shape of the request and the quirks needed to issue it
// reliably.
type CommandSpec struct {
	// Name is the command's unique key within a catalog. For direct
	// source commands the name is the human-facing source label.
	Name string

	// Category determines how the facade and the panel treat the command.
	Category Category

	// Method is the HTTP method ("GET" or "POST").
	Method string

	// Path is the URL path template the parameter list is appended to.
	Path string

	// Params is the ordered parameter list. A value of TimeSentinel is
	// substituted with the assembly-time timestamp in milliseconds.
	Params []Param

	// KVJoiner is placed between a key and its value ("=" or ":").
	KVJoiner string

	// PairJoiner is placed between successive pairs ("&" or ",").
	// A single trailing joiner is stripped after the last pair.
	PairJoiner string

	// SendTwice marks commands that must be issued twice, 500 ms
	// apart, for reliable effect. The second send re-resolves any
	// timestamp parameters.
	SendTwice bool

	// Targets is the ordered list of source labels reachable from a
	// source-cycle command. Empty for all other categories.
	Targets []string
}

// Required command names every catalog must provide for the facade's
// On/Off to function.
const (
	CommandPowerOn  = "power_on"
	CommandPowerOff = "power_off"
)

// Catalog is a read-only, declaration-ordered table of the commands a
// vendor supports. Iteration order equals declaration order, which the
// control panel relies on for stable button layout.
type Catalog struct {
	commands []CommandSpec
	index    map[string]int
}

// NewCatalog builds a catalog from the given specs. It rejects
// duplicate names and catalogs missing power_on/power_off, so a broken
// vendor table fails at load time rather than at first use.
func NewCatalog(specs ...CommandSpec) (*Catalog, error) {
	c := &Catalog{
		commands: make([]CommandSpec, 0, len(specs)),
		index:    make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("catalog: command with empty name")
		}
		if _, exists := c.index[spec.Name]; exists {
			return nil, fmt.Errorf("catalog: duplicate command %q", spec.Name)
		}
		c.index[spec.Name] = len(c.commands)
		c.commands = append(c.commands, spec)
	}

	for _, required := range []string{CommandPowerOn, CommandPowerOff} {
		if _, ok := c.index[required]; !ok {
			return nil, fmt.Errorf("catalog: missing required command %q", required)
		}
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on error. It is intended
// for static vendor tables built at package initialization, where a
// bad table is a programming error.
func MustCatalog(specs ...CommandSpec) *Catalog {
	c, err := NewCatalog(specs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the command with the given name.
func (c *Catalog) Lookup(name string) (CommandSpec, bool) {
	i, ok := c.index[name]
	if !ok {
		return CommandSpec{}, false
	}
	return c.commands[i], true
}

// Commands returns all commands in declaration order.
func (c *Catalog) Commands() []CommandSpec {
	return append([]CommandSpec(nil), c.commands...)
}

// ByCategory returns the commands matching any of the given categories,
// in declaration order.
func (c *Catalog) ByCategory(categories ...Category) []CommandSpec {
	var out []CommandSpec
	for _, spec := range c.commands {
		for _, cat := range categories {
			if spec.Category == cat {
				out = append(out, spec)
				break
			}
		}
	}
	return out
}

// Len returns the number of commands in the catalog.
func (c *Catalog) Len() int {
	return len(c.commands)
}
