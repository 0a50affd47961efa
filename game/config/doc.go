// Package config manages the world presets stored as JSON files in the
// configs directory.
//
// A preset is an engine.WorldConfig: grid size, obstacle count and size
// ranges, spacing margins, the navigation mode and optionally a fixed layout
// with fixed spawn cells. Presets are addressed by file name without the
// .json extension.
//
// Available Presets:
//   - reference: 32x25 room with 3-6 random obstacles
//   - open_room: small room without obstacles
//   - pillars: fixed layout with spawns pinned for repeatable runs
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("open_room")
//	presets, err := manager.ListConfigs()
//
// Loaded presets are validated with engine.ValidateWorldConfig and cached.
// When the reference preset is missing the first valid preset becomes the
// default, and with no valid presets at all the built-in reference layout
// is used.
package config
