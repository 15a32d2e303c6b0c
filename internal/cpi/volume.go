package cpi

import (
	"context"
	"strconv"

	"github.com/virtforge/vbox-cpi/internal/vbox"
)

// Volume actions: virtual disk management and attachment.

func (p *Provider) getVolumesAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "get_volumes",
		Description: "List all virtual disk volumes",
	}

	run := func(ctx context.Context, _ Params) (map[string]any, error) {
		out, err := p.runner.Run(ctx, "list", "hdds")
		if err != nil {
			return nil, err
		}
		return map[string]any{"volumes": vbox.ParseVolumeList(out)}, nil
	}

	return def, run
}

func (p *Provider) hasVolumeAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "has_volume",
		Description: "Check if a disk volume exists",
		Parameters: []ParameterSpec{
			{Name: "disk_path", Description: "Path to the disk", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		diskPath, err := params.String("disk_path")
		if err != nil {
			return nil, err
		}
		// Existence probe: failure is reinterpreted, not propagated.
		_, err = p.runner.Run(ctx, "showmediuminfo", "disk", diskPath)
		return map[string]any{"exists": err == nil}, nil
	}

	return def, run
}

func (p *Provider) createVolumeAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "create_volume",
		Description: "Create a new disk volume",
		Parameters: []ParameterSpec{
			{Name: "disk_path", Description: "Path for the new disk", Type: TypeString, Required: true},
			{Name: "size_mb", Description: "Size in MB", Type: TypeInteger, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		diskPath, err := params.String("disk_path")
		if err != nil {
			return nil, err
		}
		sizeMB, err := params.Int("size_mb")
		if err != nil {
			return nil, err
		}

		out, err := p.runner.Run(ctx, "createmedium", "disk",
			"--filename", diskPath,
			"--size", strconv.FormatInt(sizeMB, 10),
			"--format", "VDI")
		if err != nil {
			return nil, err
		}

		return map[string]any{
			"uuid": vbox.LabeledField(out, "UUID:"),
			"path": vbox.LabeledField(out, "Location:"),
		}, nil
	}

	return def, run
}

func (p *Provider) deleteVolumeAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "delete_volume",
		Description: "Delete a disk volume",
		Parameters: []ParameterSpec{
			{Name: "disk_path", Description: "Path to the disk", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		diskPath, err := params.String("disk_path")
		if err != nil {
			return nil, err
		}
		if _, err := p.runner.Run(ctx, "closemedium", "disk", diskPath, "--delete"); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}

func (p *Provider) attachVolumeAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "attach_volume",
		Description: "Create a storage controller and attach a disk to a VM",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
			{Name: "controller_name", Description: "Name of the storage controller", Type: TypeString, Default: p.defaults.ControllerName},
			{Name: "port", Description: "Port number", Type: TypeInteger, Required: true},
			{Name: "disk_path", Description: "Path to the disk", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		controller, ok, err := params.StringOpt("controller_name")
		if err != nil {
			return nil, err
		}
		if !ok {
			controller = p.defaults.ControllerName
		}
		port, err := params.Int("port")
		if err != nil {
			return nil, err
		}
		diskPath, err := params.String("disk_path")
		if err != nil {
			return nil, err
		}

		// Best-effort controller creation: VBoxManage fails when the
		// controller already exists, and that failure is deliberately
		// discarded before the attach.
		_, _ = p.runner.Run(ctx, "storagectl", name,
			"--name", controller,
			"--add", "sata",
			"--controller", "IntelAhci",
			"--portcount", "30")

		if _, err := p.runner.Run(ctx, "storageattach", name,
			"--storagectl", controller,
			"--port", strconv.FormatInt(port, 10),
			"--device", "0",
			"--type", "dvddrive",
			"--medium", diskPath); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}

func (p *Provider) detachVolumeAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "detach_volume",
		Description: "Detach a disk from a VM",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
			{Name: "controller_name", Description: "Name of the storage controller", Type: TypeString, Default: p.defaults.ControllerName},
			{Name: "port", Description: "Port number", Type: TypeInteger, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		controller, ok, err := params.StringOpt("controller_name")
		if err != nil {
			return nil, err
		}
		if !ok {
			controller = p.defaults.ControllerName
		}
		port, err := params.Int("port")
		if err != nil {
			return nil, err
		}

		if _, err := p.runner.Run(ctx, "storageattach", name,
			"--storagectl", controller,
			"--port", strconv.FormatInt(port, 10),
			"--device", "0",
			"--type", "hdd",
			"--medium", "none"); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}

func (p *Provider) snapshotVolumeAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "snapshot_volume",
		Description: "Clone a disk volume",
		Parameters: []ParameterSpec{
			{Name: "source_volume_path", Description: "Path to the source disk", Type: TypeString, Required: true},
			{Name: "target_volume_path", Description: "Path for the cloned disk", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		source, err := params.String("source_volume_path")
		if err != nil {
			return nil, err
		}
		target, err := params.String("target_volume_path")
		if err != nil {
			return nil, err
		}

		out, err := p.runner.Run(ctx, "clonemedium", "disk", source, target)
		if err != nil {
			return nil, err
		}
		return map[string]any{"uuid": vbox.LabeledField(out, "UUID:")}, nil
	}

	return def, run
}
