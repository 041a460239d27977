package main

import "testing"

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"report", "serve", "buildkb"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing the --config flag")
	}
}

func TestReportCommandRequiresURL(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"report"})
	if err := root.Execute(); err == nil {
		t.Error("report without --url should fail")
	}
}
