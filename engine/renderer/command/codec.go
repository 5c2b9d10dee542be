package command

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gl/engine/geometry"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
)

var (
	// ErrUnknownOpcode is returned by Decode for an opcode outside the vocabulary.
	ErrUnknownOpcode = errors.New("command: unknown opcode")

	// ErrMalformed is returned by Decode for a missing operand or an operand of the wrong type.
	ErrMalformed = errors.New("command: malformed stream")
)

// Decode parses a flat untyped command stream: each opcode name is followed by its operands.
//
// Operands by opcode:
//   - WITH: path string
//   - GL_SET_DRAW_OPTIONS: DrawOptions, or a map with "blending" bool, "side" string and
//     "depthTest" bool
//   - GL_AMBIENT_LIGHT, GL_LIGHT_COLOR: r, g, b
//   - GL_LIGHT_POSITION: x, y, z
//   - MATERIAL_INPUT: input uniform name, material.Expression
//   - GL_SET_GEOMETRY: geometry id, draw type (geometry.DrawType or its name), dynamic bool
//   - GL_UNIFORMS: uniform name, value
//   - GL_BUFFER_DATA: geometry id, buffer name, values, spacing, dynamic bool
//   - GL_CUTOUT_STATE, GL_MESH_VISIBILITY: bool
//   - CHANGE_TRANSFORM: 16 numbers, column major
//   - CHANGE_SIZE: x, y
//
// Numbers may be any Go integer or float type.
//
// Parameters:
//   - stream: the untyped stream
//
// Returns:
//   - []Command: the decoded commands in stream order
//   - error: ErrUnknownOpcode or ErrMalformed, wrapped with the stream position
func Decode(stream []any) ([]Command, error) {
	d := &decoder{stream: stream}
	var out []Command
	for d.pos < len(stream) {
		at := d.pos
		token := stream[d.pos]
		d.pos++

		var op Opcode
		switch t := token.(type) {
		case string:
			parsed, ok := ParseOpcode(t)
			if !ok {
				return nil, fmt.Errorf("%w: %q at %d", ErrUnknownOpcode, t, at)
			}
			op = parsed
		case Opcode:
			if t.String() == "UNKNOWN" {
				return nil, fmt.Errorf("%w: %d at %d", ErrUnknownOpcode, int(t), at)
			}
			op = t
		default:
			return nil, fmt.Errorf("%w: expected opcode at %d, got %T", ErrMalformed, at, token)
		}

		cmd, err := d.command(op)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

// Encode flattens commands into the untyped stream Decode reads. Opcodes are written by name
// and draw types as geometry.DrawType values.
//
// Parameters:
//   - cmds: the commands
//
// Returns:
//   - []any: the untyped stream
func Encode(cmds []Command) []any {
	var out []any
	for _, cmd := range cmds {
		out = append(out, cmd.Opcode().String())
		switch c := cmd.(type) {
		case With:
			out = append(out, c.Path)
		case SetDrawOptions:
			out = append(out, c.Options)
		case AmbientLight:
			out = append(out, c.Color[0], c.Color[1], c.Color[2])
		case LightPosition:
			out = append(out, c.Position[0], c.Position[1], c.Position[2])
		case LightColor:
			out = append(out, c.Color[0], c.Color[1], c.Color[2])
		case MaterialInput:
			out = append(out, c.Input, c.Material)
		case SetGeometry:
			out = append(out, c.GeometryID, c.DrawType, c.Dynamic)
		case Uniforms:
			out = append(out, c.Name, c.Value)
		case BufferData:
			out = append(out, c.GeometryID, c.Buffer, c.Values, c.Spacing, c.Dynamic)
		case CutoutState:
			out = append(out, c.Enabled)
		case MeshVisibility:
			out = append(out, c.Visible)
		case ChangeTransform:
			for _, v := range c.Transform {
				out = append(out, v)
			}
		case ChangeSize:
			out = append(out, c.Size[0], c.Size[1])
		}
	}
	return out
}

type decoder struct {
	stream []any
	pos    int
}

func (d *decoder) command(op Opcode) (Command, error) {
	switch op {
	case OpWith:
		path, err := d.readString(op, "path")
		return With{Path: path}, err
	case OpSetDrawOptions:
		opts, err := d.readDrawOptions(op)
		return SetDrawOptions{Options: opts}, err
	case OpAmbientLight:
		c, err := d.readVec3(op, "color")
		return AmbientLight{Color: c}, err
	case OpLightPosition:
		p, err := d.readVec3(op, "position")
		return LightPosition{Position: p}, err
	case OpLightColor:
		c, err := d.readVec3(op, "color")
		return LightColor{Color: c}, err
	case OpMaterialInput:
		input, err := d.readString(op, "input")
		if err != nil {
			return nil, err
		}
		v, err := d.next(op, "material")
		if err != nil {
			return nil, err
		}
		expr, ok := v.(material.Expression)
		if !ok {
			return nil, d.malformed(op, "material", v)
		}
		return MaterialInput{Input: input, Material: expr}, nil
	case OpSetGeometry:
		id, err := d.readID(op)
		if err != nil {
			return nil, err
		}
		drawType, err := d.readDrawType(op)
		if err != nil {
			return nil, err
		}
		dynamic, err := d.readBool(op, "dynamic")
		return SetGeometry{GeometryID: id, DrawType: drawType, Dynamic: dynamic}, err
	case OpUniforms:
		name, err := d.readString(op, "name")
		if err != nil {
			return nil, err
		}
		v, err := d.next(op, "value")
		return Uniforms{Name: name, Value: v}, err
	case OpBufferData:
		return d.bufferData(op)
	case OpCutoutState:
		b, err := d.readBool(op, "enabled")
		return CutoutState{Enabled: b}, err
	case OpMeshVisibility:
		b, err := d.readBool(op, "visible")
		return MeshVisibility{Visible: b}, err
	case OpChangeTransform:
		var m [16]float32
		for i := range m {
			f, err := d.readFloat(op, "transform")
			if err != nil {
				return nil, err
			}
			m[i] = f
		}
		return ChangeTransform{Transform: m}, nil
	case OpChangeSize:
		x, err := d.readFloat(op, "x")
		if err != nil {
			return nil, err
		}
		y, err := d.readFloat(op, "y")
		return ChangeSize{Size: [2]float32{x, y}}, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOpcode, op)
}

func (d *decoder) bufferData(op Opcode) (Command, error) {
	id, err := d.readID(op)
	if err != nil {
		return nil, err
	}
	name, err := d.readString(op, "buffer")
	if err != nil {
		return nil, err
	}
	v, err := d.next(op, "values")
	if err != nil {
		return nil, err
	}
	values, ok := toFloats(v)
	if !ok {
		return nil, d.malformed(op, "values", v)
	}
	spacing, err := d.readFloat(op, "spacing")
	if err != nil {
		return nil, err
	}
	dynamic, err := d.readBool(op, "dynamic")
	if err != nil {
		return nil, err
	}
	return BufferData{GeometryID: id, Buffer: name, Values: values, Spacing: int(spacing), Dynamic: dynamic}, nil
}

func (d *decoder) next(op Opcode, what string) (any, error) {
	if d.pos >= len(d.stream) {
		return nil, fmt.Errorf("%w: %s %s missing at %d", ErrMalformed, op, what, d.pos)
	}
	v := d.stream[d.pos]
	d.pos++
	return v, nil
}

func (d *decoder) malformed(op Opcode, what string, v any) error {
	return fmt.Errorf("%w: %s %s at %d has type %T", ErrMalformed, op, what, d.pos-1, v)
}

func (d *decoder) readString(op Opcode, what string) (string, error) {
	v, err := d.next(op, what)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", d.malformed(op, what, v)
	}
	return s, nil
}

func (d *decoder) readBool(op Opcode, what string) (bool, error) {
	v, err := d.next(op, what)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, d.malformed(op, what, v)
	}
	return b, nil
}

func (d *decoder) readFloat(op Opcode, what string) (float32, error) {
	v, err := d.next(op, what)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, d.malformed(op, what, v)
	}
	return f, nil
}

func (d *decoder) readVec3(op Opcode, what string) ([3]float32, error) {
	var out [3]float32
	for i := range out {
		f, err := d.readFloat(op, what)
		if err != nil {
			return out, err
		}
		out[i] = f
	}
	return out, nil
}

func (d *decoder) readID(op Opcode) (uint64, error) {
	v, err := d.next(op, "geometry id")
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		if t >= 0 {
			return uint64(t), nil
		}
	case float64:
		if t >= 0 && t == math.Trunc(t) {
			return uint64(t), nil
		}
	}
	return 0, d.malformed(op, "geometry id", v)
}

func (d *decoder) readDrawType(op Opcode) (geometry.DrawType, error) {
	v, err := d.next(op, "draw type")
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case geometry.DrawType:
		return t, nil
	case string:
		if dt, ok := geometry.ParseDrawType(t); ok {
			return dt, nil
		}
	}
	return 0, d.malformed(op, "draw type", v)
}

func (d *decoder) readDrawOptions(op Opcode) (DrawOptions, error) {
	v, err := d.next(op, "options")
	if err != nil {
		return DrawOptions{}, err
	}
	switch t := v.(type) {
	case DrawOptions:
		return t, nil
	case map[string]any:
		var opts DrawOptions
		if b, ok := t["blending"].(bool); ok {
			opts.Blending = b
		}
		if b, ok := t["depthTest"].(bool); ok {
			opts.DisableDepthTest = !b
		}
		if s, ok := t["side"].(string); ok {
			switch s {
			case "back":
				opts.Side = SideBack
			case "double":
				opts.Side = SideDouble
			}
		}
		return opts, nil
	}
	return DrawOptions{}, d.malformed(op, "options", v)
}

func toFloat(v any) (float32, bool) {
	switch t := v.(type) {
	case float32:
		return t, true
	case float64:
		return float32(t), true
	case int:
		return float32(t), true
	case int32:
		return float32(t), true
	case int64:
		return float32(t), true
	case uint32:
		return float32(t), true
	case uint64:
		return float32(t), true
	}
	return 0, false
}

func toFloats(v any) ([]float32, bool) {
	switch t := v.(type) {
	case []float32:
		return t, true
	case []float64:
		out := make([]float32, len(t))
		for i, f := range t {
			out[i] = float32(f)
		}
		return out, true
	case []any:
		out := make([]float32, len(t))
		for i, e := range t {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}
