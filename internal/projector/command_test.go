package projector

import "testing"

func specNamed(name string, category Category) CommandSpec {
	return CommandSpec{
		Name:       name,
		Category:   category,
		Method:     "GET",
		Path:       "/cmd?",
		Params:     []Param{{Key: "KEY", Value: "00"}},
		KVJoiner:   "=",
		PairJoiner: "&",
	}
}

func TestNewCatalogValidation(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCatalog(specNamed("", CategoryFeature))
		if err == nil {
			t.Error("empty command name accepted")
		}
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		_, err := NewCatalog(
			specNamed(CommandPowerOn, CategoryPower),
			specNamed(CommandPowerOff, CategoryPower),
			specNamed(CommandPowerOn, CategoryPower),
		)
		if err == nil {
			t.Error("duplicate command name accepted")
		}
	})

	t.Run("rejects missing power commands", func(t *testing.T) {
		_, err := NewCatalog(specNamed("Blank", CategoryToggle))
		if err == nil {
			t.Error("catalog without power_on/power_off accepted")
		}
		_, err = NewCatalog(
			specNamed(CommandPowerOn, CategoryPower),
			specNamed("Blank", CategoryToggle),
		)
		if err == nil {
			t.Error("catalog without power_off accepted")
		}
	})

	t.Run("accepts complete catalog", func(t *testing.T) {
		c, err := NewCatalog(
			specNamed(CommandPowerOn, CategoryPower),
			specNamed(CommandPowerOff, CategoryPower),
		)
		if err != nil {
			t.Fatalf("valid catalog rejected: %v", err)
		}
		if c.Len() != 2 {
			t.Errorf("Len() = %d, want 2", c.Len())
		}
	})
}

func TestMustCatalogPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCatalog should panic on an invalid table")
		}
	}()
	MustCatalog(specNamed("Blank", CategoryToggle))
}

func TestCatalogPreservesDeclarationOrder(t *testing.T) {
	c := MustCatalog(
		specNamed(CommandPowerOn, CategoryPower),
		specNamed(CommandPowerOff, CategoryPower),
		specNamed("Computer", CategorySourceCycle),
		specNamed("Video", CategorySourceCycle),
		specNamed("Blank", CategoryToggle),
		specNamed("Freeze", CategoryToggle),
	)

	want := []string{CommandPowerOn, CommandPowerOff, "Computer", "Video", "Blank", "Freeze"}
	commands := c.Commands()
	if len(commands) != len(want) {
		t.Fatalf("Commands() returned %d entries, want %d", len(commands), len(want))
	}
	for i, name := range want {
		if commands[i].Name != name {
			t.Errorf("Commands()[%d] = %q, want %q", i, commands[i].Name, name)
		}
	}

	cycles := c.ByCategory(CategorySourceCycle)
	if len(cycles) != 2 || cycles[0].Name != "Computer" || cycles[1].Name != "Video" {
		t.Errorf("ByCategory(source_cycle) = %v", cycles)
	}

	mixed := c.ByCategory(CategoryToggle, CategoryPower)
	wantMixed := []string{CommandPowerOn, CommandPowerOff, "Blank", "Freeze"}
	if len(mixed) != len(wantMixed) {
		t.Fatalf("ByCategory(toggle, power) returned %d entries, want %d", len(mixed), len(wantMixed))
	}
	for i, name := range wantMixed {
		if mixed[i].Name != name {
			t.Errorf("ByCategory(toggle, power)[%d] = %q, want %q", i, mixed[i].Name, name)
		}
	}
}

func TestCatalogLookup(t *testing.T) {
	c := MustCatalog(
		specNamed(CommandPowerOn, CategoryPower),
		specNamed(CommandPowerOff, CategoryPower),
	)

	if _, ok := c.Lookup(CommandPowerOn); !ok {
		t.Error("Lookup(power_on) missed")
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Error("Lookup(nope) hit")
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		want     string
	}{
		{CategoryPower, "power"},
		{CategorySource, "source"},
		{CategorySourceCycle, "source_cycle"},
		{CategoryFeature, "feature"},
		{CategoryToggle, "toggle"},
	}
	for _, tt := range tests {
		if got := tt.category.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.category, got, tt.want)
		}
	}
}
