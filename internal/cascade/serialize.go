package cascade

import (
	"encoding/binary"
	"io"

	"github.com/cwbudde/boostcascade/internal/classifier"
	"github.com/cwbudde/boostcascade/internal/stump"
)

// WriteCascade writes a trained cascade (spec §6.1): image_size,
// cumulative false-positive rate, cumulative detection rate, then the
// linked-list-framed sequence of Haar booster stages.
func WriteCascade(w io.Writer, c *Cascade) error {
	if err := binary.Write(w, binary.LittleEndian, int32(c.ImageSize)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.CumFPRate); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.CumDetRate); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(c.Stages))); err != nil {
		return err
	}
	for _, stage := range c.Stages {
		if err := classifier.WriteHaarBooster(w, stage); err != nil {
			return err
		}
	}
	return nil
}

// ReadCascade reads a cascade written by WriteCascade. kind and
// confidence must match the training configuration used to produce it;
// every stage shares the cascade's own image_size as its window
// dimensions (spec §4.9/§4.10 — all stages train on the same S×S
// window).
func ReadCascade(r io.Reader, kind stump.Kind, confidence bool) (*Cascade, error) {
	var imageSize int32
	if err := binary.Read(r, binary.LittleEndian, &imageSize); err != nil {
		return nil, err
	}
	var cumFP, cumDet float64
	if err := binary.Read(r, binary.LittleEndian, &cumFP); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &cumDet); err != nil {
		return nil, err
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	c := &Cascade{ImageSize: int(imageSize), CumFPRate: cumFP, CumDetRate: cumDet}
	c.Stages = make([]*classifier.HaarBooster, count)
	for i := range c.Stages {
		stage, err := classifier.ReadHaarBooster(r, kind, confidence, int(imageSize), int(imageSize))
		if err != nil {
			return nil, err
		}
		c.Stages[i] = stage
	}
	return c, nil
}
