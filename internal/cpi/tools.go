package cpi

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/virtforge/vbox-cpi/internal/safety"
	"github.com/virtforge/vbox-cpi/internal/tools"
)

// Tools exposes every registered action as an MCP tool. The tool schema is
// derived mechanically from the ActionDefinition, so the MCP surface and the
// queryable registry can never drift apart. The filter, when it denies a
// worker_name, short-circuits before any VBoxManage invocation.
func (p *Provider) Tools(filter *safety.Filter, audit *safety.AuditLogger) []tools.Registration {
	regs := make([]tools.Registration, 0, len(p.order))
	for _, name := range p.order {
		regs = append(regs, p.registration(p.actions[name].def, filter, audit))
	}
	return regs
}

func (p *Provider) registration(def ActionDefinition, filter *safety.Filter, audit *safety.AuditLogger) tools.Registration {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, ps := range def.Parameters {
		opts = append(opts, toolOption(ps))
	}
	tool := mcp.NewTool(def.Name, opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		args := req.GetArguments()

		if name, ok := args["worker_name"].(string); ok && filter != nil && !filter.IsAllowed(name) {
			tools.LogAudit(audit, def.Name, args, "denied", start)
			return tools.ErrorResult("access to worker \"" + name + "\" is not allowed"), nil
		}

		out, err := p.ExecuteAction(ctx, def.Name, Params(args))
		if err != nil {
			tools.LogAudit(audit, def.Name, args, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, def.Name, args, "ok", start)
		return tools.JSONResult(out), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// toolOption translates one ParameterSpec into the matching typed MCP
// property declaration, carrying over required and default annotations.
func toolOption(ps ParameterSpec) mcp.ToolOption {
	propOpts := []mcp.PropertyOption{mcp.Description(ps.Description)}
	if ps.Required {
		propOpts = append(propOpts, mcp.Required())
	}

	switch ps.Type {
	case TypeInteger:
		if d, ok := toInt64(ps.Default); ok {
			propOpts = append(propOpts, mcp.DefaultNumber(float64(d)))
		}
		return mcp.WithNumber(ps.Name, propOpts...)
	case TypeBoolean:
		if d, ok := ps.Default.(bool); ok {
			propOpts = append(propOpts, mcp.DefaultBool(d))
		}
		return mcp.WithBoolean(ps.Name, propOpts...)
	default:
		if d, ok := ps.Default.(string); ok {
			propOpts = append(propOpts, mcp.DefaultString(d))
		}
		return mcp.WithString(ps.Name, propOpts...)
	}
}
