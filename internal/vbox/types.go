// Package vbox drives the VBoxManage command-line tool and converts its
// line-oriented text output into typed records.
package vbox

// Worker holds the information known about a virtual machine. Only Name and
// ID are guaranteed to be populated; the remaining fields depend on which
// VBoxManage output the record was parsed from. The terse `list vms` format
// carries nothing beyond name and UUID, while the machine-readable
// `showvminfo` dump fills in state and hardware details.
type Worker struct {
	Name string `json:"name"`
	// UUID duplicates ID. The CPI contract requires "id"; "uuid" is kept
	// alongside it for callers that still read the old field.
	UUID               string `json:"uuid,omitempty"`
	ID                 string `json:"id"`
	State              string `json:"state,omitempty"`
	MemoryMB           int64  `json:"memory_mb,omitempty"`
	CPUCount           int64  `json:"cpu_count,omitempty"`
	OSType             string `json:"os_type,omitempty"`
	Firmware           string `json:"firmware,omitempty"`
	GraphicsController string `json:"graphics_controller,omitempty"`
}

// Volume holds the information parsed from one `list hdds` property block.
// Every field is optional; a block that yields none of them is discarded by
// the parser rather than emitted empty.
type Volume struct {
	ID     string `json:"id,omitempty"`
	Path   string `json:"path,omitempty"`
	SizeMB int64  `json:"size_mb,omitempty"`
	Format string `json:"format,omitempty"`
	Type   string `json:"type,omitempty"`
	Parent string `json:"parent,omitempty"`
	State  string `json:"state,omitempty"`
}
