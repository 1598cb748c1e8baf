package imf

import "testing"

func tiledHeader(width, height int32, td TileDescription) *Header {
	h := NewHeaderWithDimensions(width, height, 1.0, V2f{0, 0}, 1.0,
		LineOrderIncreasingY, CompressionZIP)
	cl := NewChannelList()
	cl.Add(NewChannel("R", PixelTypeHalf))
	h.SetChannels(cl)
	h.SetTileDescription(td)
	return h
}

func TestNumLevels(t *testing.T) {
	tests := []struct {
		name         string
		width        int32
		height       int32
		td           TileDescription
		wantX, wantY int
	}{
		{"one level", 256, 256,
			TileDescription{XSize: 64, YSize: 64, Mode: LevelModeOne}, 1, 1},
		{"mipmap square", 256, 256,
			TileDescription{XSize: 64, YSize: 64, Mode: LevelModeMipmap}, 9, 9},
		{"mipmap uses larger dimension", 256, 16,
			TileDescription{XSize: 64, YSize: 64, Mode: LevelModeMipmap}, 9, 9},
		{"mipmap round up", 100, 100,
			TileDescription{XSize: 32, YSize: 32, Mode: LevelModeMipmap, RoundingMode: LevelRoundUp}, 8, 8},
		{"mipmap round down", 100, 100,
			TileDescription{XSize: 32, YSize: 32, Mode: LevelModeMipmap, RoundingMode: LevelRoundDown}, 7, 7},
		{"ripmap independent axes", 256, 16,
			TileDescription{XSize: 64, YSize: 64, Mode: LevelModeRipmap}, 9, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tiledHeader(tt.width, tt.height, tt.td)
			if got := h.NumXLevels(); got != tt.wantX {
				t.Errorf("NumXLevels = %d; want %d", got, tt.wantX)
			}
			if got := h.NumYLevels(); got != tt.wantY {
				t.Errorf("NumYLevels = %d; want %d", got, tt.wantY)
			}
		})
	}
}

func TestLevelDimensions(t *testing.T) {
	h := tiledHeader(100, 100, TileDescription{
		XSize: 32, YSize: 32, Mode: LevelModeMipmap, RoundingMode: LevelRoundUp,
	})

	widths := []int{100, 50, 25, 13, 7, 4, 2, 1}
	for level, want := range widths {
		if got := h.LevelWidth(level); got != want {
			t.Errorf("LevelWidth(%d) = %d; want %d", level, got, want)
		}
	}

	down := tiledHeader(100, 100, TileDescription{
		XSize: 32, YSize: 32, Mode: LevelModeMipmap, RoundingMode: LevelRoundDown,
	})
	if got := down.LevelWidth(3); got != 12 {
		t.Errorf("round-down LevelWidth(3) = %d; want 12", got)
	}
}

func TestNumTiles(t *testing.T) {
	h := tiledHeader(100, 60, TileDescription{XSize: 32, YSize: 32, Mode: LevelModeOne})

	// 100/32 and 60/32, rounded up.
	if got := h.NumXTiles(0); got != 4 {
		t.Errorf("NumXTiles(0) = %d; want 4", got)
	}
	if got := h.NumYTiles(0); got != 2 {
		t.Errorf("NumYTiles(0) = %d; want 2", got)
	}
}

func TestChunksInFileScanline(t *testing.T) {
	tests := []struct {
		comp   Compression
		height int32
		want   int
	}{
		{CompressionNone, 100, 100},
		{CompressionZIPS, 100, 100},
		{CompressionZIP, 100, 7},  // 16 lines per chunk
		{CompressionZIP, 64, 4},   // exact multiple
		{CompressionPIZ, 100, 4},  // 32 lines per chunk
		{CompressionDWAB, 512, 2}, // 256 lines per chunk
	}
	for _, tt := range tests {
		h := NewHeaderWithDimensions(64, tt.height, 1.0, V2f{0, 0}, 1.0,
			LineOrderIncreasingY, tt.comp)
		if got := h.ChunksInFile(); got != tt.want {
			t.Errorf("ChunksInFile(%v, height %d) = %d; want %d",
				tt.comp, tt.height, got, tt.want)
		}
	}
}

func TestChunksInFileTiled(t *testing.T) {
	h := tiledHeader(128, 128, TileDescription{XSize: 64, YSize: 64, Mode: LevelModeOne})
	if got := h.ChunksInFile(); got != 4 {
		t.Errorf("one-level ChunksInFile = %d; want 4", got)
	}

	// Mipmap 128x128 with 64x64 tiles: 4 + 1 + 1 + ... down to 1x1.
	h = tiledHeader(128, 128, TileDescription{
		XSize: 64, YSize: 64, Mode: LevelModeMipmap, RoundingMode: LevelRoundDown,
	})
	// Levels: 128, 64, 32, 16, 8, 4, 2, 1 -> tiles 4,1,1,1,1,1,1,1
	if got := h.ChunksInFile(); got != 11 {
		t.Errorf("mipmap ChunksInFile = %d; want 11", got)
	}
}
