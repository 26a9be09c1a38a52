package cli

import (
	"bytes"
	"testing"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	flagFormat, flagServer, flagLang = "text", "", ""
	return buf.String(), err
}

// isolate points HOME at a temp dir and clears env overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GK_SERVER_URL", "")
	t.Setenv("GK_LOCALE", "")
	t.Setenv("GK_SITE_URL", "")
	t.Setenv("LANG", "")
}

func TestRootHelp(t *testing.T) {
	_, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	if formatFlag == nil {
		t.Fatal("expected --format flag to exist")
	}
	if formatFlag.DefValue != "text" {
		t.Errorf("expected --format default 'text', got %q", formatFlag.DefValue)
	}
	for _, name := range []string{"server", "lang"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to exist", name)
		}
	}
}

func TestShowRequiresID(t *testing.T) {
	if _, err := executeCommand("show"); err == nil {
		t.Fatal("expected error when no id provided")
	}
}

func TestSearchRejectsTwoArgs(t *testing.T) {
	if _, err := executeCommand("search", "a=1", "b=2"); err == nil {
		t.Fatal("expected error for two positional args")
	}
}

func TestBookingCancelRequiresReference(t *testing.T) {
	if _, err := executeCommand("booking", "cancel"); err == nil {
		t.Fatal("expected error when no reference provided")
	}
}
