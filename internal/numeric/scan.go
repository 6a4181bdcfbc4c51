package numeric

// Scan walks every window position and scale over a single full-image
// integral image pair, per spec §4.11: the window starts at size
// winH×winW, steps by step pixels in both axes, and grows by scaleStep
// (1.25 in the spec's default) after each full pass over the image.
// visit is called once per (window, scale); it returns false to stop
// the whole scan early.
//
// This is shared by cascade bootstrap hard-negative mining (§4.10 step
// 2d) and the detector (§4.11) so both walk windows identically.
func Scan(s Grid, winH, winW, step int, scaleStep float64, visit func(win Window, scale float64) bool) {
	imgH, imgW := s.Height(), s.Width()
	if imgH == 0 || imgW == 0 || winH <= 0 || winW <= 0 || step <= 0 || scaleStep <= 1 {
		return
	}
	prevH, prevW := 0, 0
	for scale := 1.0; ; scale *= scaleStep {
		h := int(float64(winH) * scale)
		w := int(float64(winW) * scale)
		if h > imgH || w > imgW {
			return
		}
		if h == prevH && w == prevW {
			// truncation left the window size unchanged; this pass would
			// revisit the previous pass's windows.
			continue
		}
		prevH, prevW = h, w
		for y := 0; y+h <= imgH; y += step {
			for x := 0; x+w <= imgW; x += step {
				if !visit(Window{OriginY: y, OriginX: x, Height: h, Width: w}, scale) {
					return
				}
			}
		}
	}
}
