package cpi

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/virtforge/vbox-cpi/internal/config"
	"github.com/virtforge/vbox-cpi/internal/vbox"
)

// ---------------------------------------------------------------------------
// Fake runner
// ---------------------------------------------------------------------------

// fakeResponse is one scripted reply from the fake runner.
type fakeResponse struct {
	out string
	err error
}

// fakeRunner records every argument vector and replays scripted responses in
// order. Once the script is exhausted it returns empty output and no error.
type fakeRunner struct {
	calls     [][]string
	responses []fakeResponse
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	if len(f.responses) == 0 {
		return "", nil
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	return r.out, r.err
}

// Compile-time check that fakeRunner satisfies the Runner interface.
var _ vbox.Runner = (*fakeRunner)(nil)

// testDefaults mirrors the stock provider defaults.
func testDefaults() config.Defaults {
	return config.DefaultConfig().Defaults
}

// newTestProvider returns a provider over the given fake runner.
func newTestProvider(f *fakeRunner) *Provider {
	return New(f, testDefaults())
}

// argvEqual reports whether got matches want exactly.
func argvEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Registry tests
// ---------------------------------------------------------------------------

var wantActionOrder = []string{
	"test_install",
	"list_workers",
	"create_worker",
	"delete_worker",
	"get_worker",
	"has_worker",
	"start_worker",
	"get_volumes",
	"has_volume",
	"create_volume",
	"delete_volume",
	"attach_volume",
	"detach_volume",
	"create_snapshot",
	"delete_snapshot",
	"has_snapshot",
	"reboot_worker",
	"configure_networks",
	"set_worker_metadata",
	"snapshot_volume",
}

func Test_ListActions_DeclaredOrder(t *testing.T) {
	p := newTestProvider(&fakeRunner{})
	got := p.ListActions()
	if len(got) != len(wantActionOrder) {
		t.Fatalf("ListActions() returned %d actions, want %d", len(got), len(wantActionOrder))
	}
	for i, name := range wantActionOrder {
		if got[i] != name {
			t.Errorf("ListActions()[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func Test_Definition_Cases(t *testing.T) {
	p := newTestProvider(&fakeRunner{})

	def, ok := p.Definition("create_worker")
	if !ok {
		t.Fatal("Definition(create_worker) not found")
	}
	if def.Name != "create_worker" {
		t.Errorf("Name = %q, want create_worker", def.Name)
	}
	if len(def.Parameters) != 4 {
		t.Fatalf("create_worker has %d parameters, want 4", len(def.Parameters))
	}
	if !def.Parameters[0].Required || def.Parameters[0].Name != "worker_name" {
		t.Errorf("first parameter = %+v, want required worker_name", def.Parameters[0])
	}
	if def.Parameters[1].Default != testDefaults().OSType {
		t.Errorf("os_type default = %v, want %q", def.Parameters[1].Default, testDefaults().OSType)
	}
	if def.Parameters[2].Type != TypeInteger {
		t.Errorf("memory_mb type = %q, want integer", def.Parameters[2].Type)
	}

	if _, ok := p.Definition("sideload_firmware"); ok {
		t.Error("Definition() found an action that does not exist")
	}
}

func Test_ExecuteAction_UnknownActionNamesIt(t *testing.T) {
	p := newTestProvider(&fakeRunner{})
	_, err := p.ExecuteAction(context.Background(), "warp_worker", Params{})
	if err == nil {
		t.Fatal("ExecuteAction() succeeded for unknown action")
	}
	if got, want := err.Error(), "Action 'warp_worker' not found"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func Test_ExecuteAction_StampsSuccess(t *testing.T) {
	f := &fakeRunner{responses: []fakeResponse{{out: "7.0.12\n"}}}
	p := newTestProvider(f)

	out, err := p.ExecuteAction(context.Background(), "test_install", Params{})
	if err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}
	if out["success"] != true {
		t.Errorf("success = %v, want true", out["success"])
	}
	if out["version"] != "7.0.12" {
		t.Errorf("version = %v, want 7.0.12", out["version"])
	}
}

func Test_ExecuteAction_SubprocessErrorPropagates(t *testing.T) {
	f := &fakeRunner{responses: []fakeResponse{{err: errors.New("VBoxManage command failed: no such VM")}}}
	p := newTestProvider(f)

	_, err := p.ExecuteAction(context.Background(), "start_worker", Params{"worker_name": "ghost"})
	if err == nil {
		t.Fatal("ExecuteAction() succeeded, want subprocess error")
	}
	if !strings.Contains(err.Error(), "no such VM") {
		t.Errorf("error = %q, want stderr text preserved", err)
	}
}

func Test_ExecuteAction_UnknownParametersIgnored(t *testing.T) {
	f := &fakeRunner{}
	p := newTestProvider(f)

	out, err := p.ExecuteAction(context.Background(), "delete_worker", Params{
		"worker_name": "vm1",
		"color":       "purple",
	})
	if err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}
	if out["success"] != true {
		t.Errorf("success = %v, want true", out["success"])
	}
}

func Test_New_NilRunnerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(nil, ...) did not panic")
		}
	}()
	New(nil, testDefaults())
}

func Test_Provider_Identity(t *testing.T) {
	p := newTestProvider(&fakeRunner{})
	if p.Name() != "virtualbox" {
		t.Errorf("Name() = %q, want virtualbox", p.Name())
	}
	if p.Type() != "command" {
		t.Errorf("Type() = %q, want command", p.Type())
	}
}
