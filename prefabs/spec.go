package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/locomotion"
	"gopkg.in/yaml.v3"
)

var ErrUnknownLayer = errors.New("prefabs: unknown layer")

func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := loadInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// loadInto decodes over out, so fields missing from the file keep the
// values out already holds.
func loadInto(filename string, out any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}

type MovementSpec struct {
	MoveSpeed      float64 `yaml:"move_speed"`
	JumpHeight     float64 `yaml:"jump_height"`
	Gravity        float64 `yaml:"gravity"`
	GravityScale   float64 `yaml:"gravity_scale"`
	TurnSmoothTime float64 `yaml:"turn_smooth_time"`
	MaxTurnSpeed   float64 `yaml:"max_turn_speed"`
	InputThreshold float64 `yaml:"input_threshold"`
	GroundingBias  float64 `yaml:"grounding_bias"`
	AirControl     bool    `yaml:"air_control"`
}

type GroundCheckSpec struct {
	Radius float64  `yaml:"radius"`
	Offset Vec3Spec `yaml:"offset"`
	// Layers are names from the level's layer table. Empty means all.
	Layers []string `yaml:"layers"`
}

type BodySpec struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
	Mass   float64 `yaml:"mass"`
}

type CharacterSpec struct {
	Name        string          `yaml:"name"`
	Controller  string          `yaml:"controller"`
	Movement    MovementSpec    `yaml:"movement"`
	GroundCheck GroundCheckSpec `yaml:"ground_check"`
	Body        BodySpec        `yaml:"body"`
	Spawn       Vec3Spec        `yaml:"spawn"`
	// Script names a tengo input script under scripts/ for headless runs.
	Script string `yaml:"script"`
}

// DefaultCharacterSpec mirrors locomotion.DefaultMovementConfig.
func DefaultCharacterSpec() CharacterSpec {
	cfg := locomotion.DefaultMovementConfig()
	return CharacterSpec{
		Name:       "player",
		Controller: locomotion.KindKinematic.String(),
		Movement: MovementSpec{
			MoveSpeed:      cfg.MoveSpeed,
			JumpHeight:     cfg.JumpHeight,
			Gravity:        cfg.Gravity,
			GravityScale:   cfg.GravityScale,
			TurnSmoothTime: cfg.TurnSmoothTime,
			MaxTurnSpeed:   cfg.MaxTurnSpeed,
			InputThreshold: cfg.InputThreshold,
			GroundingBias:  cfg.GroundingBias,
			AirControl:     cfg.AirControl,
		},
		GroundCheck: GroundCheckSpec{
			Radius: cfg.GroundCheckRadius,
			Offset: Vec3Spec(cfg.GroundCheckOffset),
		},
		Body:  BodySpec{Radius: 0.5, Height: 2, Mass: 1},
		Spawn: Vec3Spec{0, 1, 0},
	}
}

// LoadCharacterSpec reads a character prefab over the defaults.
func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	if filename == "" {
		filename = "character.yaml"
	}
	spec := DefaultCharacterSpec()
	if err := loadInto(filename, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s CharacterSpec) Kind() (locomotion.Kind, error) {
	k, err := locomotion.ParseKind(s.Controller)
	if err != nil {
		return 0, fmt.Errorf("prefabs: character %s: %w", s.Name, err)
	}
	return k, nil
}

// MovementConfig resolves layer names against layers and validates the
// result.
func (s CharacterSpec) MovementConfig(layers LayerTable) (locomotion.MovementConfig, error) {
	mask := locomotion.AllLayers
	if len(s.GroundCheck.Layers) > 0 {
		m, err := layers.Mask(s.GroundCheck.Layers)
		if err != nil {
			return locomotion.MovementConfig{}, fmt.Errorf("prefabs: character %s ground check: %w", s.Name, err)
		}
		mask = m
	}
	mv := s.Movement
	cfg := locomotion.MovementConfig{
		MoveSpeed:         mv.MoveSpeed,
		JumpHeight:        mv.JumpHeight,
		Gravity:           mv.Gravity,
		GravityScale:      mv.GravityScale,
		TurnSmoothTime:    mv.TurnSmoothTime,
		MaxTurnSpeed:      mv.MaxTurnSpeed,
		GroundCheckRadius: s.GroundCheck.Radius,
		GroundCheckOffset: mgl64.Vec3(s.GroundCheck.Offset),
		GroundMask:        mask,
		InputThreshold:    mv.InputThreshold,
		GroundingBias:     mv.GroundingBias,
		AirControl:        mv.AirControl,
	}
	if err := cfg.Validate(); err != nil {
		return locomotion.MovementConfig{}, fmt.Errorf("prefabs: character %s: %w", s.Name, err)
	}
	return cfg, nil
}

type LayerSpec struct {
	Name  string     `yaml:"name"`
	Index int        `yaml:"index"`
	Color *YAMLColor `yaml:"color"`
}

type GroundSpec struct {
	Name   string   `yaml:"name"`
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	W      float64  `yaml:"w"`
	H      float64  `yaml:"h"`
	Layers []string `yaml:"layers"`
}

type BoundsSpec struct {
	Min Vec2Spec `yaml:"min"`
	Max Vec2Spec `yaml:"max"`
}

type CameraSpec struct {
	Yaw float64 `yaml:"yaw"`
	// TurnSpeed is how fast the playground orbits the camera, in degrees
	// per second.
	TurnSpeed float64 `yaml:"turn_speed"`
}

type LevelSpec struct {
	Name    string       `yaml:"name"`
	Bounds  BoundsSpec   `yaml:"bounds"`
	Gravity Vec3Spec     `yaml:"gravity"`
	Layers  []LayerSpec  `yaml:"layers"`
	Ground  []GroundSpec `yaml:"ground"`
	Camera  CameraSpec   `yaml:"camera"`
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	if filename == "" {
		filename = "level.yaml"
	}
	spec := LevelSpec{
		Gravity: Vec3Spec{0, -9.8, 0},
		Camera:  CameraSpec{TurnSpeed: 90},
	}
	if err := loadInto(filename, &spec); err != nil {
		return nil, err
	}
	if _, err := spec.LayerTable(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// LayerTable maps layer names to bit indices.
type LayerTable map[string]int

func (l LevelSpec) LayerTable() (LayerTable, error) {
	t := make(LayerTable, len(l.Layers))
	for _, ly := range l.Layers {
		if ly.Index < 0 || ly.Index > 31 {
			return nil, fmt.Errorf("prefabs: level %s layer %s: index %d out of range", l.Name, ly.Name, ly.Index)
		}
		if _, dup := t[ly.Name]; dup {
			return nil, fmt.Errorf("prefabs: level %s: duplicate layer %s", l.Name, ly.Name)
		}
		t[ly.Name] = ly.Index
	}
	return t, nil
}

// Mask ORs the named layers. An empty list yields 0.
func (t LayerTable) Mask(names []string) (locomotion.LayerMask, error) {
	var m locomotion.LayerMask
	for _, n := range names {
		idx, ok := t[n]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, n)
		}
		m |= locomotion.Layer(idx)
	}
	return m, nil
}

// LayerColor returns the debug color of the first layer in mask, or nil.
func (l LevelSpec) LayerColor(mask locomotion.LayerMask) color.Color {
	for _, ly := range l.Layers {
		if mask.Has(locomotion.Layer(ly.Index)) && ly.Color != nil {
			return ly.Color.Color
		}
	}
	return nil
}

// Vec3Spec decodes a three element sequence.
type Vec3Spec mgl64.Vec3

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	xs, err := decodeFloats(value, 3)
	if err != nil {
		return err
	}
	copy(v[:], xs)
	return nil
}

// Vec2Spec decodes a two element sequence.
type Vec2Spec mgl64.Vec2

func (v *Vec2Spec) UnmarshalYAML(value *yaml.Node) error {
	xs, err := decodeFloats(value, 2)
	if err != nil {
		return err
	}
	copy(v[:], xs)
	return nil
}

func decodeFloats(value *yaml.Node, n int) ([]float64, error) {
	if value.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: vector must be a sequence", value.Line)
	}
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return nil, err
	}
	if len(xs) != n {
		return nil, fmt.Errorf("line %d: vector needs %d elements, got %d", value.Line, n, len(xs))
	}
	return xs, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
