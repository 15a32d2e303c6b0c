package vbox

import (
	"strconv"
	"strings"
)

// The parsers in this file are pure functions over raw VBoxManage output.
// They share three rules: empty input produces an empty result rather than
// an error, malformed lines are skipped silently, and a field that fails a
// numeric conversion is dropped without failing the record it belongs to.

// ParseVersion extracts the version string from `VBoxManage --version`
// output, which is a single line of free text.
func ParseVersion(out string) string {
	return strings.TrimSpace(out)
}

// ParseWorkerList parses the terse `list vms` format, one VM per line:
//
//	"ubuntu-server" {f1b2c3d4-...}
//
// The name is bounded by the first and last double quote, the UUID by the
// first and last brace. Lines missing either pair contribute nothing. State
// is not present in this format and is reported as "unknown".
func ParseWorkerList(out string) []Worker {
	var workers []Worker

	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		firstQuote := strings.Index(line, `"`)
		lastQuote := strings.LastIndex(line, `"`)
		if firstQuote < 0 || firstQuote >= lastQuote {
			continue
		}
		name := line[firstQuote+1 : lastQuote]

		openBrace := strings.Index(line, "{")
		closeBrace := strings.LastIndex(line, "}")
		if openBrace < 0 || openBrace >= closeBrace {
			continue
		}
		uuid := line[openBrace+1 : closeBrace]

		workers = append(workers, Worker{
			Name:  name,
			UUID:  uuid,
			ID:    uuid,
			State: "unknown",
		})
	}

	return workers
}

// ParseWorkerInfo parses `showvminfo --machinereadable` output, one
// key=value pair per line with values optionally double-quoted. Unrecognized
// keys are dropped. The memory and cpus values are integers in this format;
// if one fails to parse, that field alone is omitted.
func ParseWorkerInfo(out string) Worker {
	var w Worker

	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"`)

		switch key {
		case "name":
			w.Name = value
		case "UUID":
			w.ID = value
		case "VMState":
			w.State = value
		case "memory":
			if mem, err := strconv.ParseInt(value, 10, 64); err == nil {
				w.MemoryMB = mem
			}
		case "cpus":
			if cpus, err := strconv.ParseInt(value, 10, 64); err == nil {
				w.CPUCount = cpus
			}
		case "ostype":
			w.OSType = value
		case "firmware":
			w.Firmware = value
		case "graphicscontroller":
			w.GraphicsController = value
		}
	}

	return w
}

// LabeledField scans out for the first line containing label and returns the
// trimmed remainder after the line's first colon. VBoxManage reports created
// identifiers this way ("UUID: <value>", "Location: <path>"). Returns ""
// when no line matches.
func LabeledField(out, label string) string {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, label) {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AfterMarker returns the trimmed text following the first occurrence of
// marker in out. `snapshot take` confirms with a free-text line ending in
// "taken as <uuid>", which this extracts. Returns "" when the marker is
// absent.
func AfterMarker(out, marker string) string {
	for _, line := range strings.Split(out, "\n") {
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		return strings.TrimSpace(line[idx+len(marker):])
	}
	return ""
}

// ParseVolumeList parses `list hdds` output: property blocks separated by a
// blank line, each block a run of "Label: value" lines. A block in which no
// label is recognized is discarded entirely. Capacity is only recorded when
// the unit token is MBytes, which is what VBoxManage emits for disk images.
func ParseVolumeList(out string) []Volume {
	var volumes []Volume

	for _, block := range strings.Split(out, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}

		var v Volume
		recognized := false

		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "UUID:"):
				v.ID = strings.TrimSpace(strings.TrimPrefix(line, "UUID:"))
				recognized = true
			case strings.HasPrefix(line, "Parent UUID:"):
				v.Parent = strings.TrimSpace(strings.TrimPrefix(line, "Parent UUID:"))
				recognized = true
			case strings.HasPrefix(line, "Location:"):
				v.Path = strings.TrimSpace(strings.TrimPrefix(line, "Location:"))
				recognized = true
			case strings.HasPrefix(line, "Capacity:"):
				fields := strings.Fields(strings.TrimPrefix(line, "Capacity:"))
				if len(fields) >= 2 && fields[1] == "MBytes" {
					if size, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
						v.SizeMB = size
						recognized = true
					}
				}
			case strings.HasPrefix(line, "Format:"):
				v.Format = strings.TrimSpace(strings.TrimPrefix(line, "Format:"))
				recognized = true
			case strings.HasPrefix(line, "Type:"):
				v.Type = strings.TrimSpace(strings.TrimPrefix(line, "Type:"))
				recognized = true
			case strings.HasPrefix(line, "State:"):
				v.State = strings.TrimSpace(strings.TrimPrefix(line, "State:"))
				recognized = true
			}
		}

		if recognized {
			volumes = append(volumes, v)
		}
	}

	return volumes
}

// ContainsLine reports whether any line of out contains substr. This is a
// substring match, not an exact-name match: a snapshot named "base" is
// reported present when only "base-v2" exists. Kept deliberately — see the
// has_snapshot action contract.
func ContainsLine(out, substr string) bool {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
