package stump

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cwbudde/boostcascade/internal/numeric"
)

// WriteBody writes a stump body's wire representation (spec §6.1): a
// confidence-rated continuous stump stores its outputs as floats, a
// plain continuous stump as ints; a discrete stump stores its bucket
// count, default output, and parallel value/output arrays. All widths
// are fixed (int32, float64) rather than host-native, so a persisted
// model is portable across architectures even though the source this
// format is modeled on made no such claim.
func WriteBody(w io.Writer, b Body) error {
	switch body := b.(type) {
	case *Continuous:
		return writeContinuous(w, body)
	case *Discrete:
		return writeDiscrete(w, body)
	default:
		return fmt.Errorf("stump: unknown body type %T", b)
	}
}

func writeContinuous(w io.Writer, c *Continuous) error {
	if err := binary.Write(w, binary.LittleEndian, c.Theta); err != nil {
		return err
	}
	if c.Confidence {
		return binary.Write(w, binary.LittleEndian, [2]float64{c.OutLow, c.OutHigh})
	}
	return binary.Write(w, binary.LittleEndian, [2]int32{int32(c.OutLow), int32(c.OutHigh)})
}

func writeDiscrete(w io.Writer, d *Discrete) error {
	count := int32(len(d.Values))
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}
	if d.Confidence {
		if err := binary.Write(w, binary.LittleEndian, d.Default); err != nil {
			return err
		}
	} else if err := binary.Write(w, binary.LittleEndian, int32(d.Default)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, d.Values); err != nil {
		return err
	}
	if d.Confidence {
		return binary.Write(w, binary.LittleEndian, d.Outputs)
	}
	outputs := make([]int32, len(d.Outputs))
	for i, o := range d.Outputs {
		outputs[i] = int32(o)
	}
	return binary.Write(w, binary.LittleEndian, outputs)
}

// ReadBody reads a stump body previously written by WriteBody. kind and
// confidence must match what the caller trained with: the wire format
// carries no type tag of its own (spec §6.1), the same way the source's
// function-pointer table picks a decoder from context rather than from
// the bytes themselves.
func ReadBody(r io.Reader, kind Kind, confidence bool) (Body, error) {
	if kind == KindDiscrete {
		return readDiscrete(r, confidence)
	}
	return readContinuous(r, confidence)
}

func readContinuous(r io.Reader, confidence bool) (*Continuous, error) {
	var theta float64
	if err := binary.Read(r, binary.LittleEndian, &theta); err != nil {
		return nil, err
	}
	c := &Continuous{Theta: theta, Confidence: confidence}
	if confidence {
		var out [2]float64
		if err := binary.Read(r, binary.LittleEndian, &out); err != nil {
			return nil, err
		}
		c.OutLow, c.OutHigh = out[0], out[1]
		return c, nil
	}
	var out [2]int32
	if err := binary.Read(r, binary.LittleEndian, &out); err != nil {
		return nil, err
	}
	c.OutLow, c.OutHigh = float64(out[0]), float64(out[1])
	return c, nil
}

func readDiscrete(r io.Reader, confidence bool) (*Discrete, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("stump: negative discrete bucket count %d", count)
	}
	d := &Discrete{Confidence: confidence}
	if confidence {
		if err := binary.Read(r, binary.LittleEndian, &d.Default); err != nil {
			return nil, err
		}
	} else {
		var def int32
		if err := binary.Read(r, binary.LittleEndian, &def); err != nil {
			return nil, err
		}
		d.Default = float64(def)
	}
	d.Values = make([]float64, count)
	if err := binary.Read(r, binary.LittleEndian, d.Values); err != nil {
		return nil, err
	}
	if confidence {
		d.Outputs = make([]float64, count)
		if err := binary.Read(r, binary.LittleEndian, d.Outputs); err != nil {
			return nil, err
		}
		return d, nil
	}
	outputs := make([]int32, count)
	if err := binary.Read(r, binary.LittleEndian, outputs); err != nil {
		return nil, err
	}
	d.Outputs = make([]float64, count)
	for i, o := range outputs {
		d.Outputs[i] = float64(o)
	}
	return d, nil
}

// WriteVectorStump writes a feature index followed by its body
// (spec §6.1 "vector stump").
func WriteVectorStump(w io.Writer, v *VectorStump) error {
	if err := binary.Write(w, binary.LittleEndian, int32(v.Feature)); err != nil {
		return err
	}
	return WriteBody(w, v.Body)
}

// ReadVectorStump reads a feature-indexed stump written by
// WriteVectorStump.
func ReadVectorStump(r io.Reader, kind Kind, confidence bool) (*VectorStump, error) {
	var feature int32
	if err := binary.Read(r, binary.LittleEndian, &feature); err != nil {
		return nil, err
	}
	body, err := ReadBody(r, kind, confidence)
	if err != nil {
		return nil, err
	}
	return &VectorStump{Feature: int(feature), Body: body}, nil
}

// WriteHaarStump writes a Haar descriptor followed by its body. The
// spec leaves the descriptor's own wire layout unspecified (§6.1 only
// fixes the stump body and the booster's linked-list framing); encoding
// it as five int32 fields (type, startX, startY, width, height) mirrors
// how HaarFeature itself is declared.
func WriteHaarStump(w io.Writer, h *HaarStump) error {
	d := h.Descriptor
	fields := [5]int32{int32(d.Type), int32(d.StartX), int32(d.StartY), int32(d.Width), int32(d.Height)}
	if err := binary.Write(w, binary.LittleEndian, fields); err != nil {
		return err
	}
	return WriteBody(w, h.Body)
}

// ReadHaarStump reads a Haar descriptor and body written by
// WriteHaarStump.
func ReadHaarStump(r io.Reader, kind Kind, confidence bool) (*HaarStump, error) {
	var fields [5]int32
	if err := binary.Read(r, binary.LittleEndian, &fields); err != nil {
		return nil, err
	}
	desc := numeric.HaarFeature{
		Type:   numeric.HaarType(fields[0]),
		StartX: int(fields[1]),
		StartY: int(fields[2]),
		Width:  int(fields[3]),
		Height: int(fields[4]),
	}
	body, err := ReadBody(r, kind, confidence)
	if err != nil {
		return nil, err
	}
	return &HaarStump{Descriptor: desc, Body: body}, nil
}
