package cpi

import (
	"context"

	"github.com/virtforge/vbox-cpi/internal/vbox"
)

// Snapshot actions. Snapshots are named children of exactly one worker and
// are never retained here; every query goes back through a full listing
// parse.

func (p *Provider) createSnapshotAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "create_snapshot",
		Description: "Create a snapshot of a VM",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
			{Name: "snapshot_name", Description: "Name of the snapshot", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		snapName, err := params.String("snapshot_name")
		if err != nil {
			return nil, err
		}

		out, err := p.runner.Run(ctx, "snapshot", name, "take", snapName)
		if err != nil {
			return nil, err
		}
		return map[string]any{"uuid": vbox.AfterMarker(out, "taken as")}, nil
	}

	return def, run
}

func (p *Provider) deleteSnapshotAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "delete_snapshot",
		Description: "Delete a snapshot of a VM",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
			{Name: "snapshot_name", Description: "Name of the snapshot", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		snapName, err := params.String("snapshot_name")
		if err != nil {
			return nil, err
		}
		if _, err := p.runner.Run(ctx, "snapshot", name, "delete", snapName); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return def, run
}

func (p *Provider) hasSnapshotAction() (ActionDefinition, executorFunc) {
	def := ActionDefinition{
		Name:        "has_snapshot",
		Description: "Check if a snapshot exists",
		Parameters: []ParameterSpec{
			{Name: "worker_name", Description: "Name of the VM", Type: TypeString, Required: true},
			{Name: "snapshot_name", Description: "Name of the snapshot", Type: TypeString, Required: true},
		},
	}

	run := func(ctx context.Context, params Params) (map[string]any, error) {
		name, err := params.String("worker_name")
		if err != nil {
			return nil, err
		}
		snapName, err := params.String("snapshot_name")
		if err != nil {
			return nil, err
		}

		out, err := p.runner.Run(ctx, "snapshot", name, "list", "--machinereadable")
		if err != nil {
			return nil, err
		}
		// Substring match against the listing, so a snapshot named with
		// this name as a prefix also reports true. Documented behaviour.
		return map[string]any{"exists": vbox.ContainsLine(out, snapName)}, nil
	}

	return def, run
}
