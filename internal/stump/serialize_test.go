package stump

import (
	"bytes"
	"testing"

	"github.com/cwbudde/boostcascade/internal/numeric"
)

func TestContinuousBodyRoundTripConfidence(t *testing.T) {
	c := &Continuous{Theta: 1.5, Confidence: true, OutLow: -0.75, OutHigh: 2.25}
	var buf bytes.Buffer
	if err := WriteBody(&buf, c); err != nil {
		t.Fatalf("WriteBody: %v", err)
	}
	got, err := ReadBody(&buf, KindContinuous, true)
	if err != nil {
		t.Fatalf("ReadBody: %v", err)
	}
	gc := got.(*Continuous)
	if gc.Theta != c.Theta || gc.OutLow != c.OutLow || gc.OutHigh != c.OutHigh {
		t.Errorf("got %+v, want %+v", gc, c)
	}
}

func TestContinuousBodyRoundTripPlain(t *testing.T) {
	c := &Continuous{Theta: 0, Confidence: false, OutLow: -1, OutHigh: 1}
	var buf bytes.Buffer
	if err := WriteBody(&buf, c); err != nil {
		t.Fatalf("WriteBody: %v", err)
	}
	got, err := ReadBody(&buf, KindContinuous, false)
	if err != nil {
		t.Fatalf("ReadBody: %v", err)
	}
	gc := got.(*Continuous)
	if gc.OutLow != -1 || gc.OutHigh != 1 {
		t.Errorf("got %+v, want OutLow=-1 OutHigh=1", gc)
	}
}

func TestDiscreteBodyRoundTrip(t *testing.T) {
	d := &Discrete{Confidence: true, Values: []float64{1, 2, 5}, Outputs: []float64{-0.5, 0.5, 1.2}, Default: 0.1}
	var buf bytes.Buffer
	if err := WriteBody(&buf, d); err != nil {
		t.Fatalf("WriteBody: %v", err)
	}
	got, err := ReadBody(&buf, KindDiscrete, true)
	if err != nil {
		t.Fatalf("ReadBody: %v", err)
	}
	gd := got.(*Discrete)
	if gd.Default != d.Default || len(gd.Values) != 3 || gd.Outputs[2] != 1.2 {
		t.Errorf("got %+v, want %+v", gd, d)
	}
}

func TestVectorStumpRoundTrip(t *testing.T) {
	v := &VectorStump{Feature: 3, Body: &Continuous{Theta: 2, Confidence: false, OutLow: -1, OutHigh: 1}}
	var buf bytes.Buffer
	if err := WriteVectorStump(&buf, v); err != nil {
		t.Fatalf("WriteVectorStump: %v", err)
	}
	got, err := ReadVectorStump(&buf, KindContinuous, false)
	if err != nil {
		t.Fatalf("ReadVectorStump: %v", err)
	}
	if got.Feature != 3 {
		t.Errorf("Feature = %d, want 3", got.Feature)
	}
}

func TestHaarStumpRoundTrip(t *testing.T) {
	h := &HaarStump{
		Descriptor: numeric.HaarFeature{Type: numeric.ThreeHorizontal, StartX: 1, StartY: 2, Width: 3, Height: 4},
		Body:       &Continuous{Theta: 0.3, Confidence: true, OutLow: -0.2, OutHigh: 0.9},
	}
	var buf bytes.Buffer
	if err := WriteHaarStump(&buf, h); err != nil {
		t.Fatalf("WriteHaarStump: %v", err)
	}
	got, err := ReadHaarStump(&buf, KindContinuous, true)
	if err != nil {
		t.Fatalf("ReadHaarStump: %v", err)
	}
	if got.Descriptor != h.Descriptor {
		t.Errorf("Descriptor = %+v, want %+v", got.Descriptor, h.Descriptor)
	}
}
