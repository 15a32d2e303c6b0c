package cpi

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/virtforge/vbox-cpi/internal/vbox"
)

// Worker actions: VM lifecycle, inspection, networking, and metadata.

func (p *Provider) testInstallAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "test_install",
		Description: "Test if VirtualBox is properly installed",
	}

	run := func(ctx context.Context, _ Params) (map[string]any, error) {
		out, err := p.runner.Run(ctx, "--version")
		if err != nil {
			return nil, err
		}
		return map[string]any{"version": vbox.ParseVersion(out)}, nil
	}

	return def, run
}

func (p *Provider) listWorkersAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "list_workers",
		Description: "List all virtual machines",
	}

	run := func(ctx context.Context, _ Params) (map[string]any, error) {
		out, err := p.runner.Run(ctx, "list", "vms")
		if err != nil {
			return nil, err
		}
		workers := vbox.ParseWorkerList(out)
		log.Printf("list_workers: parsed %d workers", len(workers))
		return map[string]any{"workers": workers}, nil
	}

	return def, run
}

func (p *Provider) createWorkerAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "create_worker",
		Description: "Create a new virtual machine",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM to create", Type: TypeString, Required: true},
			{Name: "os_type", Description: "Operating system type", Type: TypeString, Default: p.defaults.OSType},
			{Name: "memory_mb", Description: "Memory in MB", Type: TypeInteger, Default: p.defaults.MemoryMB},
			{Name: "cpu_count", Description: "Number of CPUs", Type: TypeInteger, Default: p.defaults.CPUCount},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		osType, ok, err := params.StringOpt("os_type")
		if err != nil {
			return nil, err
		}
		if !ok {
			osType = p.defaults.OSType
		}
		memoryMB, ok, err := params.IntOpt("memory_mb")
		if err != nil {
			return nil, err
		}
		if !ok {
			memoryMB = p.defaults.MemoryMB
		}
		cpuCount, ok, err := params.IntOpt("cpu_count")
		if err != nil {
			return nil, err
		}
		if !ok {
			cpuCount = p.defaults.CPUCount
		}

		out, err := p.runner.Run(ctx, "createvm", "--name", name, "--ostype", osType, "--register")
		if err != nil {
			return nil, err
		}
		uuid := vbox.LabeledField(out, "UUID")

		if _, err := p.runner.Run(ctx, "modifyvm", name,
			"--memory", strconv.FormatInt(memoryMB, 10),
			"--cpus", strconv.FormatInt(cpuCount, 10)); err != nil {
			return nil, err
		}

		if _, err := p.runner.Run(ctx, "modifyvm", name, "--nic1", "nat"); err != nil {
			return nil, err
		}

		return map[string]any{"uuid": uuid, "name": name}, nil
	}

	return def, run
}

func (p *Provider) deleteWorkerAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "delete_worker",
		Description: "Delete a virtual machine",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM to delete", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		if _, err := p.runner.Run(ctx, "unregistervm", name, "--delete"); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}

func (p *Provider) getWorkerAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "get_worker",
		Description: "Get information about a virtual machine",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		out, err := p.runner.Run(ctx, "showvminfo", name, "--machinereadable")
		if err != nil {
			return nil, err
		}
		return map[string]any{"vm": vbox.ParseWorkerInfo(out)}, nil
	}

	return def, run
}

func (p *Provider) hasWorkerAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "has_worker",
		Description: "Check if a virtual machine exists",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		// Existence probe: a failing query means "not there", never an
		// error surfaced to the caller.
		_, err = p.runner.Run(ctx, "showvminfo", name, "--machinereadable")
		return map[string]any{"exists": err == nil}, nil
	}

	return def, run
}

func (p *Provider) startWorkerAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "start_worker",
		Description: "Start a virtual machine",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM to start", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		if _, err := p.runner.Run(ctx, "startvm", name, "--type", "headless"); err != nil {
			return nil, err
		}
		return map[string]any{"started": name}, nil
	}

	return def, run
}

func (p *Provider) rebootWorkerAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "reboot_worker",
		Description: "Reboot a VM",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		if _, err := p.runner.Run(ctx, "controlvm", name, "reset"); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}

func (p *Provider) configureNetworksAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "configure_networks",
		Description: "Configure network settings for a VM",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
			{Name: "network_index", Description: "Network adapter index", Type: TypeInteger, Required: true},
			{Name: "network_type", Description: "Network type", Type: TypeString, Default: p.defaults.NetworkType},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		index, err := params.Int("network_index")
		if err != nil {
			return nil, err
		}
		netType, ok, err := params.StringOpt("network_type")
		if err != nil {
			return nil, err
		}
		if !ok {
			netType = p.defaults.NetworkType
		}

		nic := fmt.Sprintf("--nic%d", index)
		if _, err := p.runner.Run(ctx, "modifyvm", name, nic, netType); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}

func (p *Provider) setWorkerMetadataAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "set_worker_metadata",
		Description: "Set metadata for a VM",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
			{Name: "key", Description: "Metadata key", Type: TypeString, Required: true},
			{Name: "value", Description: "Metadata value", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		key, err := params.String("key")
		if err != nil {
			return nil, err
		}
		value, err := params.String("value")
		if err != nil {
			return nil, err
		}
		if _, err := p.runner.Run(ctx, "setextradata", name, key, value); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}
