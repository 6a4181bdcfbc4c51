package classifier

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cwbudde/boostcascade/internal/stump"
)

func writeBool(w io.Writer, b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return binary.Write(w, binary.LittleEndian, v)
}

func readBool(r io.Reader) (bool, error) {
	var v uint8
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return false, err
	}
	return v != 0, nil
}

// WriteVectorBinary writes a vector-binary booster (spec §6.1):
// using_fold, learner count, then — only if unfolded — the alpha
// array, then each learner record in order.
func WriteVectorBinary(w io.Writer, c *VectorBinary) error {
	if err := writeBool(w, c.UsingFold); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(c.Learners))); err != nil {
		return err
	}
	if !c.UsingFold {
		if err := binary.Write(w, binary.LittleEndian, c.Alphas); err != nil {
			return err
		}
	}
	for _, l := range c.Learners {
		if err := stump.WriteVectorStump(w, l); err != nil {
			return err
		}
	}
	return nil
}

// ReadVectorBinary reads a booster written by WriteVectorBinary. kind
// and confidence must match the training configuration that produced
// it — the stump body formats carry no self-describing tag (spec
// §6.1).
func ReadVectorBinary(r io.Reader, kind stump.Kind, confidence bool) (*VectorBinary, error) {
	usingFold, err := readBool(r)
	if err != nil {
		return nil, err
	}
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("classifier: negative vector-binary learner count %d", count)
	}
	c := &VectorBinary{UsingFold: usingFold, Confidence: confidence}
	if !usingFold {
		c.Alphas = make([]float64, count)
		if err := binary.Read(r, binary.LittleEndian, c.Alphas); err != nil {
			return nil, err
		}
	}
	c.Learners = make([]*stump.VectorStump, count)
	for i := range c.Learners {
		l, err := stump.ReadVectorStump(r, kind, confidence)
		if err != nil {
			return nil, err
		}
		c.Learners[i] = l
	}
	return c, nil
}

// WriteVectorMulticlass writes a Hamming-loss multiclass booster (spec
// §6.1): using_fold, group_count, K, then — if unfolded — the alpha
// array, then group_count·K learner records in row-major (group, class)
// order.
func WriteVectorMulticlass(w io.Writer, c *VectorMulticlass) error {
	if err := writeBool(w, c.UsingFold); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(c.Groups))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(c.K)); err != nil {
		return err
	}
	if !c.UsingFold {
		if err := binary.Write(w, binary.LittleEndian, c.Alphas); err != nil {
			return err
		}
	}
	for _, g := range c.Groups {
		for _, l := range g.Learners {
			if err := stump.WriteVectorStump(w, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadVectorMulticlass reads a booster written by WriteVectorMulticlass.
func ReadVectorMulticlass(r io.Reader, kind stump.Kind, confidence bool) (*VectorMulticlass, error) {
	usingFold, err := readBool(r)
	if err != nil {
		return nil, err
	}
	var groupCount, k int32
	if err := binary.Read(r, binary.LittleEndian, &groupCount); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &k); err != nil {
		return nil, err
	}
	if groupCount < 0 || k < 0 {
		return nil, fmt.Errorf("classifier: negative multiclass dimensions (groups=%d, k=%d)", groupCount, k)
	}
	c := &VectorMulticlass{K: int(k), UsingFold: usingFold}
	c.Alphas = make([]float64, groupCount)
	if !usingFold {
		if err := binary.Read(r, binary.LittleEndian, c.Alphas); err != nil {
			return nil, err
		}
	} else {
		// a folded model stores no α; every group counts with unit weight.
		for i := range c.Alphas {
			c.Alphas[i] = 1
		}
	}
	c.Groups = make([]*classGroup, groupCount)
	for i := range c.Groups {
		g := &classGroup{Learners: make([]*stump.VectorStump, k)}
		for j := range g.Learners {
			l, err := stump.ReadVectorStump(r, kind, confidence)
			if err != nil {
				return nil, err
			}
			g.Learners[j] = l
		}
		c.Groups[i] = g
	}
	return c, nil
}

// WriteHaarBooster writes one cascade stage (spec §6.1): using_fold,
// threshold τ, then the linked-list-framed sequence of (α, Haar
// learner) records — each α present only when the booster is unfolded.
func WriteHaarBooster(w io.Writer, c *HaarBooster) error {
	if err := writeBool(w, c.UsingFold); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Tau); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(c.Rounds))); err != nil {
		return err
	}
	for _, round := range c.Rounds {
		if !c.UsingFold {
			if err := binary.Write(w, binary.LittleEndian, round.Alpha); err != nil {
				return err
			}
		}
		if err := stump.WriteHaarStump(w, round.Stump); err != nil {
			return err
		}
	}
	return nil
}

// ReadHaarBooster reads a stage written by WriteHaarBooster. kind,
// confidence and the training window size must match the original
// configuration (winH/winW are not themselves part of the wire format:
// a cascade's stages all share the cascade's own image_size, which is
// what ReadCascade threads through — see internal/cascade).
func ReadHaarBooster(r io.Reader, kind stump.Kind, confidence bool, winH, winW int) (*HaarBooster, error) {
	usingFold, err := readBool(r)
	if err != nil {
		return nil, err
	}
	var tau float64
	if err := binary.Read(r, binary.LittleEndian, &tau); err != nil {
		return nil, err
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	c := &HaarBooster{Tau: tau, Confidence: confidence, WinH: winH, WinW: winW, UsingFold: usingFold}
	c.Rounds = make([]haarRound, count)
	for i := range c.Rounds {
		// a folded stage stores no α; every learner counts with unit weight.
		alpha := 1.0
		if !usingFold {
			if err := binary.Read(r, binary.LittleEndian, &alpha); err != nil {
				return nil, err
			}
		}
		st, err := stump.ReadHaarStump(r, kind, confidence)
		if err != nil {
			return nil, err
		}
		c.Rounds[i] = haarRound{Stump: st, Alpha: alpha}
	}
	return c, nil
}
