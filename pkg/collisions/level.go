package collisions

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

const (
	CollisionSpaceTagLevel string = "level"
	CollisionSpaceTagBody  string = "body"

	// cellSize is the resolv cell edge in world units.
	cellSize = 1
)

// Box is an axis-aligned box in world space.
type Box struct {
	Min mgl64.Vec3 `yaml:"min"`
	Max mgl64.Vec3 `yaml:"max"`
}

// Size returns the extent of the box on each axis.
func (b Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b Box) overlapsXZ(o Box) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Z() < o.Max.Z() && b.Max.Z() > o.Min.Z()
}

func (b Box) overlapsY(o Box) bool {
	return b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y()
}

func (b Box) containsXZ(x, z float64) bool {
	return x >= b.Min.X() && x <= b.Max.X() && z >= b.Min.Z() && z <= b.Max.Z()
}

// LevelConfig describes static level geometry. The level occupies
// [0, Width] x [0, Depth] on the ground plane.
type LevelConfig struct {
	Width    int     `yaml:"width"`
	Depth    int     `yaml:"depth"`
	HasFloor bool    `yaml:"has_floor"`
	FloorY   float64 `yaml:"floor_y"`
	Boxes    []Box   `yaml:"boxes"`
	// Spawn is where characters are placed, at their body origin.
	Spawn mgl64.Vec3 `yaml:"spawn"`
}

// DefaultLevelConfig returns a walled room with a platform and a low crawlspace.
func DefaultLevelConfig() LevelConfig {
	const size = 32
	return LevelConfig{
		Width:    size,
		Depth:    size,
		HasFloor: true,
		FloorY:   0,
		Boxes: []Box{
			// walls
			{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{size, 4, 1}},
			{Min: mgl64.Vec3{0, 0, size - 1}, Max: mgl64.Vec3{size, 4, size}},
			{Min: mgl64.Vec3{0, 0, 1}, Max: mgl64.Vec3{1, 4, size - 1}},
			{Min: mgl64.Vec3{size - 1, 0, 1}, Max: mgl64.Vec3{size, 4, size - 1}},
			// platform
			{Min: mgl64.Vec3{20, 0, 20}, Max: mgl64.Vec3{26, 1, 26}},
			// crawlspace roof
			{Min: mgl64.Vec3{6, 1.2, 20}, Max: mgl64.Vec3{12, 1.6, 28}},
		},
		Spawn: mgl64.Vec3{16, 1, 8},
	}
}

// Level is static geometry indexed in a resolv space by its footprint on the
// ground plane. World X maps to space X and world Z maps to space Y.
type Level struct {
	Space    *resolv.Space
	Width    int
	Depth    int
	HasFloor bool
	FloorY   float64
	Spawn    mgl64.Vec3

	boxes []Box
}

func NewLevel(cfg LevelConfig) (*Level, error) {
	if cfg.Width <= 0 || cfg.Depth <= 0 {
		return nil, fmt.Errorf("level size must be positive, got %dx%d", cfg.Width, cfg.Depth)
	}

	space := resolv.NewSpace(cfg.Width, cfg.Depth, cellSize, cellSize)
	level := &Level{
		Space:    space,
		Width:    cfg.Width,
		Depth:    cfg.Depth,
		HasFloor: cfg.HasFloor,
		FloorY:   cfg.FloorY,
		Spawn:    cfg.Spawn,
	}

	for i, box := range cfg.Boxes {
		size := box.Size()
		if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
			return nil, fmt.Errorf("box %d has non-positive size %v", i, size)
		}
		if box.Min.X() < 0 || box.Min.Z() < 0 || box.Max.X() > float64(cfg.Width) || box.Max.Z() > float64(cfg.Depth) {
			return nil, fmt.Errorf("box %d is outside the %dx%d level", i, cfg.Width, cfg.Depth)
		}
		obj := resolv.NewObject(box.Min.X(), box.Min.Z(), size.X(), size.Z(), CollisionSpaceTagLevel)
		obj.Data = box
		space.Add(obj)
		level.boxes = append(level.boxes, box)
	}

	if !inBounds(cfg.Spawn, cfg.Width, cfg.Depth) {
		return nil, fmt.Errorf("spawn %v is outside the %dx%d level", cfg.Spawn, cfg.Width, cfg.Depth)
	}

	return level, nil
}

// Boxes returns the level geometry in insertion order.
func (l *Level) Boxes() []Box {
	return l.boxes
}

func inBounds(p mgl64.Vec3, width, depth int) bool {
	return p.X() >= 0 && p.Z() >= 0 && p.X() <= float64(width) && p.Z() <= float64(depth) &&
		!math.IsNaN(p.Y())
}
