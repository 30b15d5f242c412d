package config

import "reflect"

// Change describes how disruptive a config transition is.
type Change int

const (
	// ChangeNone means nothing that affects the terrain changed.
	ChangeNone Change = iota
	// ChangeCosmetic affects only tiles generated from now on.
	ChangeCosmetic
	// ChangeTunable requires regenerating every tile.
	ChangeTunable
	// ChangeStructural requires restarting the streaming worker.
	ChangeStructural
)

func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeCosmetic:
		return "cosmetic"
	case ChangeTunable:
		return "tunable"
	case ChangeStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// Classify returns the most disruptive kind of change between two configs.
// Tile geometry is structural. Everything that alters heights, rivers,
// foliage placement or streaming is tunable. Material and model handles
// are cosmetic. Logging settings are ignored.
func Classify(prev, next *Config) Change {
	if prev == nil || next == nil {
		return ChangeStructural
	}
	if prev.Terrain.TileWidth != next.Terrain.TileWidth ||
		prev.Terrain.SegmentCount != next.Terrain.SegmentCount {
		return ChangeStructural
	}

	a, b := tunableView(prev), tunableView(next)
	if !reflect.DeepEqual(a, b) {
		return ChangeTunable
	}

	if prev.Materials != next.Materials || prev.Foliage.Model != next.Foliage.Model {
		return ChangeCosmetic
	}
	return ChangeNone
}

// tunableView strips the fields Classify treats separately.
func tunableView(c *Config) Config {
	v := *c
	v.Materials = MaterialConfig{}
	v.Foliage.Model = ""
	v.Logging = LoggingConfig{}
	return v
}
