package cpi

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/virtforge/vbox-cpi/internal/vbox"
)

func Test_ListWorkers_ParsesListing(t *testing.T) {
	f := &fakeRunner{responses: []fakeResponse{
		{out: "\"web\" {aaaa}\n\"db\" {bbbb}\n"},
	}}
	p := newTestProvider(f)

	out, err := p.ExecuteAction(context.Background(), "list_workers", Params{})
	if err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}

	if !argvEqual(f.calls[0], []string{"list", "vms"}) {
		t.Errorf("argv = %v, want [list vms]", f.calls[0])
	}

	workers, ok := out["workers"].([]vbox.Worker)
	if !ok {
		t.Fatalf("workers field is %T, want []vbox.Worker", out["workers"])
	}
	if len(workers) != 2 {
		t.Fatalf("got %d workers, want 2", len(workers))
	}
	if workers[0].Name != "web" || workers[0].ID != "aaaa" {
		t.Errorf("workers[0] = %+v", workers[0])
	}
	if workers[1].Name != "db" || workers[1].ID != "bbbb" {
		t.Errorf("workers[1] = %+v", workers[1])
	}
}

func Test_CreateWorker_Cases(t *testing.T) {
	tests := []struct {
		name        string
		params      Params
		wantErr     bool
		errContains string
		wantCalls   [][]string
		wantUUID    string
	}{
		{
			name: "explicit parameters drive argv",
			params: Params{
				"worker_name": "vm1",
				"os_type":     "Debian_64",
				"memory_mb":   int64(4096),
				"cpu_count":   int64(8),
			},
			wantCalls: [][]string{
				{"createvm", "--name", "vm1", "--ostype", "Debian_64", "--register"},
				{"modifyvm", "vm1", "--memory", "4096", "--cpus", "8"},
				{"modifyvm", "vm1", "--nic1", "nat"},
			},
			wantUUID: "new-uuid-1",
		},
		{
			name:   "omitted optionals use defaults",
			params: Params{"worker_name": "vm2"},
			wantCalls: [][]string{
				{"createvm", "--name", "vm2", "--ostype", "Ubuntu_64", "--register"},
				{"modifyvm", "vm2", "--memory", "2048", "--cpus", "2"},
				{"modifyvm", "vm2", "--nic1", "nat"},
			},
			wantUUID: "new-uuid-1",
		},
		{
			name:        "missing worker_name fails before any command",
			params:      Params{},
			wantErr:     true,
			errContains: "worker_name",
			wantCalls:   nil,
		},
		{
			name: "wrong memory type fails before any command",
			params: Params{
				"worker_name": "vm3",
				"memory_mb":   "plenty",
			},
			wantErr:     true,
			errContains: "memory_mb",
			wantCalls:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRunner{responses: []fakeResponse{
				{out: "Virtual machine 'vm' is created and registered.\nUUID: new-uuid-1\nSettings file: '/vms/vm.vbox'\n"},
			}}
			p := newTestProvider(f)

			out, err := p.ExecuteAction(context.Background(), "create_worker", tt.params)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExecuteAction() succeeded, want error containing %q", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %q, want it to contain %q", err, tt.errContains)
				}
				if len(f.calls) != 0 {
					t.Errorf("validation failure still invoked VBoxManage: %v", f.calls)
				}
				return
			}

			if err != nil {
				t.Fatalf("ExecuteAction() error: %v", err)
			}
			if len(f.calls) != len(tt.wantCalls) {
				t.Fatalf("got %d commands, want %d: %v", len(f.calls), len(tt.wantCalls), f.calls)
			}
			for i := range tt.wantCalls {
				if !argvEqual(f.calls[i], tt.wantCalls[i]) {
					t.Errorf("command[%d] = %v, want %v", i, f.calls[i], tt.wantCalls[i])
				}
			}
			if out["uuid"] != tt.wantUUID {
				t.Errorf("uuid = %v, want %q", out["uuid"], tt.wantUUID)
			}
			if out["name"] != tt.params["worker_name"] {
				t.Errorf("name = %v, want %v", out["name"], tt.params["worker_name"])
			}
		})
	}
}

func Test_GetWorker_ParsesMachineReadable(t *testing.T) {
	f := &fakeRunner{responses: []fakeResponse{{out: "name=\"vm1\"\nUUID=\"u-1\"\nVMState=\"poweroff\"\nmemory=2048\ncpus=2\n"}}}
	p := newTestProvider(f)

	out, err := p.ExecuteAction(context.Background(), "get_worker", Params{"worker_name": "vm1"})
	if err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}
	if !argvEqual(f.calls[0], []string{"showvminfo", "vm1", "--machinereadable"}) {
		t.Errorf("argv = %v", f.calls[0])
	}

	w, ok := out["vm"].(vbox.Worker)
	if !ok {
		t.Fatalf("vm field is %T, want vbox.Worker", out["vm"])
	}
	if w.Name != "vm1" || w.ID != "u-1" || w.State != "poweroff" || w.MemoryMB != 2048 || w.CPUCount != 2 {
		t.Errorf("worker = %+v", w)
	}
}

func Test_HasWorker_Cases(t *testing.T) {
	tests := []struct {
		name       string
		response   fakeResponse
		wantExists bool
	}{
		{name: "query succeeds", response: fakeResponse{out: "name=\"vm1\"\n"}, wantExists: true},
		{
			name:       "query failure becomes exists false, not an error",
			response:   fakeResponse{err: errors.New("VBoxManage command failed: Could not find a registered machine")},
			wantExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRunner{responses: []fakeResponse{tt.response}}
			p := newTestProvider(f)

			out, err := p.ExecuteAction(context.Background(), "has_worker", Params{"worker_name": "vm1"})
			if err != nil {
				t.Fatalf("existence probe returned an error: %v", err)
			}
			if out["success"] != true {
				t.Errorf("success = %v, want true", out["success"])
			}
			if out["exists"] != tt.wantExists {
				t.Errorf("exists = %v, want %v", out["exists"], tt.wantExists)
			}
		})
	}
}

func Test_StartWorker_ReportsStartedName(t *testing.T) {
	f := &fakeRunner{}
	p := newTestProvider(f)

	out, err := p.ExecuteAction(context.Background(), "start_worker", Params{"worker_name": "vm1"})
	if err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}
	if !argvEqual(f.calls[0], []string{"startvm", "vm1", "--type", "headless"}) {
		t.Errorf("argv = %v", f.calls[0])
	}
	if out["started"] != "vm1" {
		t.Errorf("started = %v, want vm1", out["started"])
	}
}

func Test_DeleteWorker_Argv(t *testing.T) {
	f := &fakeRunner{}
	p := newTestProvider(f)

	if _, err := p.ExecuteAction(context.Background(), "delete_worker", Params{"worker_name": "vm1"}); err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}
	if !argvEqual(f.calls[0], []string{"unregistervm", "vm1", "--delete"}) {
		t.Errorf("argv = %v", f.calls[0])
	}
}

func Test_RebootWorker_Argv(t *testing.T) {
	f := &fakeRunner{}
	p := newTestProvider(f)

	if _, err := p.ExecuteAction(context.Background(), "reboot_worker", Params{"worker_name": "vm1"}); err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}
	if !argvEqual(f.calls[0], []string{"controlvm", "vm1", "reset"}) {
		t.Errorf("argv = %v", f.calls[0])
	}
}

func Test_ConfigureNetworks_Cases(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		wantArgv []string
	}{
		{
			name:     "explicit type and index",
			params:   Params{"worker_name": "vm1", "network_index": int64(2), "network_type": "bridged"},
			wantArgv: []string{"modifyvm", "vm1", "--nic2", "bridged"},
		},
		{
			name:     "default network type",
			params:   Params{"worker_name": "vm1", "network_index": int64(1)},
			wantArgv: []string{"modifyvm", "vm1", "--nic1", "nat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRunner{}
			p := newTestProvider(f)

			if _, err := p.ExecuteAction(context.Background(), "configure_networks", tt.params); err != nil {
				t.Fatalf("ExecuteAction() error: %v", err)
			}
			if !argvEqual(f.calls[0], tt.wantArgv) {
				t.Errorf("argv = %v, want %v", f.calls[0], tt.wantArgv)
			}
		})
	}
}

func Test_SetWorkerMetadata_Argv(t *testing.T) {
	f := &fakeRunner{}
	p := newTestProvider(f)

	params := Params{"worker_name": "vm1", "key": "role", "value": "build-agent"}
	if _, err := p.ExecuteAction(context.Background(), "set_worker_metadata", params); err != nil {
		t.Fatalf("ExecuteAction() error: %v", err)
	}
	if !argvEqual(f.calls[0], []string{"setextradata", "vm1", "role", "build-agent"}) {
		t.Errorf("argv = %v", f.calls[0])
	}
}
