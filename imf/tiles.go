package imf

// Resolution level and chunk counting helpers. Writers use
// ChunksInFile to compute the chunkCount attribute for multi-part and
// deep parts instead of storing it up front.

// NumXLevels returns the number of resolution levels in X.
// For mipmaps X and Y level counts are equal; for ripmaps they are
// independent.
func (h *Header) NumXLevels() int {
	td := h.TileDescription()
	if td == nil {
		return 1
	}

	switch td.Mode {
	case LevelModeOne:
		return 1
	case LevelModeMipmap:
		return h.numMipmapLevels()
	case LevelModeRipmap:
		return numLevels(h.Width(), td.RoundingMode)
	}
	return 1
}

// NumYLevels returns the number of resolution levels in Y.
func (h *Header) NumYLevels() int {
	td := h.TileDescription()
	if td == nil {
		return 1
	}

	switch td.Mode {
	case LevelModeOne:
		return 1
	case LevelModeMipmap:
		return h.numMipmapLevels()
	case LevelModeRipmap:
		return numLevels(h.Height(), td.RoundingMode)
	}
	return 1
}

// numMipmapLevels returns the shared level count for both dimensions,
// driven by the larger one.
func (h *Header) numMipmapLevels() int {
	td := h.TileDescription()
	maxDim := h.Width()
	if h.Height() > maxDim {
		maxDim = h.Height()
	}
	return numLevels(maxDim, td.RoundingMode)
}

// numLevels returns how many times size halves before reaching 1,
// plus one for the full-resolution level.
func numLevels(size int, roundingMode LevelRoundingMode) int {
	if size <= 0 {
		return 0
	}
	levels := 1
	for size > 1 {
		if roundingMode == LevelRoundDown {
			size /= 2
		} else {
			size = (size + 1) / 2
		}
		levels++
	}
	return levels
}

// LevelWidth returns the data window width at resolution level lx.
// Level 0 is full resolution.
func (h *Header) LevelWidth(lx int) int {
	td := h.TileDescription()
	w := h.Width()
	if td == nil || lx < 0 {
		return w
	}
	for i := 0; i < lx && w > 1; i++ {
		if td.RoundingMode == LevelRoundDown {
			w /= 2
		} else {
			w = (w + 1) / 2
		}
	}
	if w < 1 {
		w = 1
	}
	return w
}

// LevelHeight returns the data window height at resolution level ly.
func (h *Header) LevelHeight(ly int) int {
	td := h.TileDescription()
	ht := h.Height()
	if td == nil || ly < 0 {
		return ht
	}
	for i := 0; i < ly && ht > 1; i++ {
		if td.RoundingMode == LevelRoundDown {
			ht /= 2
		} else {
			ht = (ht + 1) / 2
		}
	}
	if ht < 1 {
		ht = 1
	}
	return ht
}

// NumXTiles returns the number of tiles in X at level lx.
func (h *Header) NumXTiles(lx int) int {
	td := h.TileDescription()
	if td == nil || td.XSize == 0 {
		return 0
	}
	w := h.LevelWidth(lx)
	return (w + int(td.XSize) - 1) / int(td.XSize)
}

// NumYTiles returns the number of tiles in Y at level ly.
func (h *Header) NumYTiles(ly int) int {
	td := h.TileDescription()
	if td == nil || td.YSize == 0 {
		return 0
	}
	ht := h.LevelHeight(ly)
	return (ht + int(td.YSize) - 1) / int(td.YSize)
}

// ChunksInFile returns the number of pixel chunks this header's part
// occupies: tile count summed over all levels for tiled storage,
// scanline blocks otherwise.
func (h *Header) ChunksInFile() int {
	if h.IsTiled() {
		td := h.TileDescription()
		if td == nil {
			return 0
		}

		switch td.Mode {
		case LevelModeOne:
			return h.NumXTiles(0) * h.NumYTiles(0)

		case LevelModeMipmap:
			total := 0
			for level := 0; level < h.numMipmapLevels(); level++ {
				total += h.NumXTiles(level) * h.NumYTiles(level)
			}
			return total

		case LevelModeRipmap:
			total := 0
			for ly := 0; ly < h.NumYLevels(); ly++ {
				for lx := 0; lx < h.NumXLevels(); lx++ {
					total += h.NumXTiles(lx) * h.NumYTiles(ly)
				}
			}
			return total
		}
		return h.NumXTiles(0) * h.NumYTiles(0)
	}

	linesPerChunk := h.Compression().ScanlinesPerChunk()
	return (h.Height() + linesPerChunk - 1) / linesPerChunk
}
