// Package cpi implements the VirtualBox provider's action contract: a
// registry of named actions, each with a typed parameter schema and an
// executor that drives VBoxManage and parses its output into records.
package cpi

// ParamType identifies the declared type of an action parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// ParameterSpec declares one parameter of an action: its name, type, whether
// the caller must supply it, and the default an executor substitutes when an
// optional parameter is absent.
type ParameterSpec struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Default     any       `json:"default,omitempty"`
}

// ActionDefinition is the queryable schema of one action. Definitions are
// built once at registry construction and never mutated.
type ActionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterSpec `json:"parameters"`
}
