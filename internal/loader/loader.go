// Package loader builds internal/cascade's PositiveSource and
// NegativeSource callbacks from the on-disk collaborators named in
// spec §6.2: a positive-annotation file ("filename x y height width"
// per line) plus the PGM images it references, and a directory of
// background PGM images for negatives. Both sources cycle
// indefinitely so a long bootstrap scan never runs dry on the
// scanned-once annotation/background set.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cwbudde/boostcascade/internal/cascade"
	"github.com/cwbudde/boostcascade/internal/sample"
)

// Annotation is one parsed line of a positive-sample annotation file.
type Annotation struct {
	Filename string
	Rect     cascade.Rect
}

// LoadAnnotations parses a positive-sample annotation file (spec
// §6.2): one rectangle per line, "filename x y height width",
// whitespace-separated.
func LoadAnnotations(path string) ([]Annotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open annotation file: %w", err)
	}
	defer f.Close()

	var out []Annotation
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 5 {
			return nil, fmt.Errorf("loader: annotation line %d: want 5 fields, got %d", line, len(fields))
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("loader: annotation line %d: x: %w", line, err)
		}
		y, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("loader: annotation line %d: y: %w", line, err)
		}
		h, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("loader: annotation line %d: height: %w", line, err)
		}
		w, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("loader: annotation line %d: width: %w", line, err)
		}
		out = append(out, Annotation{
			Filename: fields[0],
			Rect:     cascade.Rect{StartX: x, StartY: y, Width: w, Height: h},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("loader: scan annotation file: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("loader: annotation file %s has no entries", path)
	}
	return out, nil
}

// PositiveSource builds a cascade.PositiveSource that cycles through
// an annotation file's entries, loading and decoding each referenced
// PGM image (resolved relative to imageDir) lazily and caching the
// decoded pixels across cycles so a long training run reads each
// image file from disk only once.
func PositiveSource(annotationPath, imageDir string) (cascade.PositiveSource, error) {
	entries, err := LoadAnnotations(annotationPath)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	idx := 0
	cache := make(map[string][][]float64, len(entries))

	return func() (cascade.PositiveSample, bool, error) {
		mu.Lock()
		defer mu.Unlock()

		a := entries[idx%len(entries)]
		idx++

		pixels, ok := cache[a.Filename]
		if !ok {
			pixels, err = loadPGMFile(filepath.Join(imageDir, a.Filename))
			if err != nil {
				return cascade.PositiveSample{}, false, err
			}
			cache[a.Filename] = pixels
		}
		return cascade.PositiveSample{Pixels: pixels, Rect: a.Rect}, true, nil
	}, nil
}

// NegativeSource builds a cascade.NegativeSource that cycles through
// every PGM file in dir (sorted for reproducibility), decoding each
// lazily and caching it across cycles.
func NegativeSource(dir string) (cascade.NegativeSource, error) {
	files, err := listPGMFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("loader: negative image directory %s has no .pgm files", dir)
	}

	var mu sync.Mutex
	idx := 0
	cache := make(map[string][][]float64, len(files))

	return func() (cascade.NegativeImage, bool, error) {
		mu.Lock()
		defer mu.Unlock()

		name := files[idx%len(files)]
		idx++

		pixels, ok := cache[name]
		if !ok {
			var err error
			pixels, err = loadPGMFile(name)
			if err != nil {
				return cascade.NegativeImage{}, false, err
			}
			cache[name] = pixels
		}
		return cascade.NegativeImage{Pixels: pixels, ID: name}, true, nil
	}, nil
}

func loadPGMFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	defer f.Close()
	pixels, err := sample.LoadPGM(f)
	if err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", path, err)
	}
	return pixels, nil
}

func listPGMFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pgm") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
