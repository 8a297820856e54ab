package models

// Zone is a coarse activity category derived from the most recent tool.
type Zone string

// Zones.
const (
	ZoneCoding   Zone = "coding"
	ZoneResearch Zone = "research"
	ZoneMemory   Zone = "memory"
	ZoneDeploy   Zone = "deploy"
	ZoneComms    Zone = "comms"
	ZoneIdle     Zone = "idle"
)

var toolZones = map[string]Zone{
	"exec":    ZoneCoding,
	"Read":    ZoneCoding,
	"Write":   ZoneCoding,
	"Edit":    ZoneCoding,
	"process": ZoneCoding,

	"web_search": ZoneResearch,
	"web_fetch":  ZoneResearch,
	"browser":    ZoneResearch,

	"memory_search":   ZoneMemory,
	"memory_get":      ZoneMemory,
	"chromadb_search": ZoneMemory,

	"nodes": ZoneDeploy,

	"message": ZoneComms,
	"tts":     ZoneComms,
}

// ClassifyTool maps a tool name to its zone. An empty name is idle; a name
// missing from the table is coding, not idle.
func ClassifyTool(name string) Zone {
	if name == "" {
		return ZoneIdle
	}
	if z, ok := toolZones[name]; ok {
		return z
	}
	return ZoneCoding
}

// Zones returns every zone in display order.
func Zones() []Zone {
	return []Zone{ZoneCoding, ZoneResearch, ZoneMemory, ZoneDeploy, ZoneComms, ZoneIdle}
}
