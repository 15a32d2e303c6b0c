package cpi

import (
	"context"
	"fmt"

	"github.com/virtforge/vbox-cpi/internal/config"
	"github.com/virtforge/vbox-cpi/internal/vbox"
)

// executorFunc runs one action. It returns the action's output record; the
// dispatcher stamps the success field onto it. Executors extract their own
// typed parameters through Params and substitute defaults themselves, so
// the record an executor builds only ever sees typed values.
type executorFunc func(ctx context.Context, params Params) (map[string]any, error)

// action pairs a queryable definition with its executor.
type action struct {
	def ActionDefinition
	run executorFunc
}

// Provider is the VirtualBox CPI provider: an immutable registry of actions
// over a VBoxManage runner and the configured default settings. It holds no
// other state — every record it returns is parsed fresh from tool output and
// nothing survives across calls, so concurrent dispatches need no locking.
type Provider struct {
	runner   vbox.Runner
	defaults config.Defaults

	actions map[string]action
	order   []string
}

// New constructs the provider and builds its action registry.
func New(runner vbox.Runner, defaults config.Defaults) *Provider {
	if runner == nil {
		panic("vbox runner must not be nil")
	}
	p := &Provider{
		runner:   runner,
		defaults: defaults,
		actions:  make(map[string]action),
	}
	p.registerActions()
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string { return "virtualbox" }

// Type returns the provider type. This provider shells out to a command-line
// tool rather than speaking a hypervisor API.
func (p *Provider) Type() string { return "command" }

// registerActions declares every action in its fixed, externally visible
// order. ListActions reports exactly this sequence.
func (p *Provider) registerActions() {
	p.register(p.testInstallAction())
	p.register(p.listWorkersAction())
	p.register(p.createWorkerAction())
	p.register(p.deleteWorkerAction())
	p.register(p.getWorkerAction())
	p.register(p.hasWorkerAction())
	p.register(p.startWorkerAction())
	p.register(p.getVolumesAction())
	p.register(p.hasVolumeAction())
	p.register(p.createVolumeAction())
	p.register(p.deleteVolumeAction())
	p.register(p.attachVolumeAction())
	p.register(p.detachVolumeAction())
	p.register(p.createSnapshotAction())
	p.register(p.deleteSnapshotAction())
	p.register(p.hasSnapshotAction())
	p.register(p.rebootWorkerAction())
	p.register(p.configureNetworksAction())
	p.register(p.setWorkerMetadataAction())
	p.register(p.snapshotVolumeAction())
}

func (p *Provider) register(def ActionDefinition, run executorFunc) {
	if _, exists := p.actions[def.Name]; exists {
		panic(fmt.Sprintf("duplicate action registration: %s", def.Name))
	}
	p.actions[def.Name] = action{def: def, run: run}
	p.order = append(p.order, def.Name)
}

// ListActions returns the names of all registered actions in declared order.
func (p *Provider) ListActions() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Definition returns the schema for the named action, and whether it exists.
func (p *Provider) Definition(name string) (ActionDefinition, bool) {
	act, ok := p.actions[name]
	return act.def, ok
}

// ExecuteAction dispatches the named action with the given parameters.
// Unknown parameters are ignored; an unknown action name is an error of the
// form "Action '<name>' not found". Every successful result carries "success": true in addition to
// the action's own output fields.
func (p *Provider) ExecuteAction(ctx context.Context, name string, params Params) (map[string]any, error) {
	act, ok := p.actions[name]
	if !ok {
		// Capitalized to preserve the exact message callers already match on.
		return nil, fmt.Errorf("Action '%s' not found", name)
	}

	out, err := act.run(ctx, params)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]any)
	}
	out["success"] = true
	return out, nil
}
