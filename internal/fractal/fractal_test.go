package fractal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DefaultConfig(t *testing.T) {
	img, err := Render(context.Background(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())

	t.Run("origin escapes immediately", func(t *testing.T) {
		// |-1.5-1.5i| is about 2.12, already outside the escape radius
		px := img.RGBAAt(0, 0)
		assert.Equal(t, uint8(0), px.R)
		assert.Equal(t, uint8(0), px.G)
		assert.Equal(t, uint8(0), px.B)
		assert.Equal(t, uint8(255), px.A)
	})

	t.Run("gradient channels", func(t *testing.T) {
		assert.Equal(t, uint8(239), img.RGBAAt(799, 0).R)
		assert.Equal(t, uint8(0), img.RGBAAt(799, 0).B)
		assert.Equal(t, uint8(239), img.RGBAAt(0, 799).B)
		assert.Equal(t, uint8(0), img.RGBAAt(0, 799).R)
		assert.Equal(t, uint8(30), img.RGBAAt(100, 200).R)
		assert.Equal(t, uint8(60), img.RGBAAt(100, 200).B)
	})

	t.Run("every pixel in range", func(t *testing.T) {
		for y := range 800 {
			for x := range 800 {
				px := img.RGBAAt(x, y)
				if px.R > 239 || px.B > 239 || px.A != 255 {
					t.Fatalf("pixel (%d,%d) out of range: %v", x, y, px)
				}
			}
		}
	})
}

func TestRender_GoldenGreen(t *testing.T) {
	img, err := Render(context.Background(), DefaultConfig())
	require.NoError(t, err)

	// reference counts from iterating the map in float32 component arithmetic
	tests := []struct {
		x, y  int
		green uint8
	}{
		{400, 400, 26},
		{399, 401, 26},
		{300, 500, 159},
		{500, 300, 159},
		{250, 400, 10},
		{420, 380, 27},
		{123, 456, 3},
		{600, 200, 5},
		// near the set boundary, where higher precision products change the count
		{516, 48, 255},
		{512, 60, 172},
		{504, 76, 229},
		{496, 68, 65},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.green, img.RGBAAt(tt.x, tt.y).G, "pixel (%d,%d)", tt.x, tt.y)
	}
}

func TestRender_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 120, 90

	cfg.Workers = 1
	serial, err := Render(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Workers = 8
	parallel, err := Render(context.Background(), cfg)
	require.NoError(t, err)

	again, err := Render(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, serial.Pix, parallel.Pix)
	assert.Equal(t, parallel.Pix, again.Pix)
}

func TestRender_RowDrivesRealAxis(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 40
	img, err := Render(context.Background(), cfg)
	require.NoError(t, err)

	scale := cfg.Span / 40
	c := complex(cfg.Real, cfg.Imag)
	for _, pt := range [][2]int{{3, 17}, {17, 3}, {20, 31}} {
		x, y := pt[0], pt[1]
		z := complex(float32(float32(y)*scale)+cfg.Offset, float32(float32(x)*scale)+cfg.Offset)
		expected := uint8(Escape(z, c, cfg.MaxIterations, cfg.EscapeRadius))
		assert.Equal(t, expected, img.RGBAAt(x, y).G, "pixel (%d,%d)", x, y)
	}
}

func TestRender_Saturates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 300, 2
	cfg.Gradient = 1.0
	cfg.MaxIterations = 1000
	cfg.Real, cfg.Imag = 0, 0
	cfg.Span, cfg.Offset = 0.001, 0
	img, err := Render(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, uint8(255), img.RGBAAt(299, 0).R)
	assert.Equal(t, uint8(254), img.RGBAAt(254, 0).R)
	// z stays near zero under z*z, so the count hits the cap and saturates
	assert.Equal(t, uint8(255), img.RGBAAt(0, 0).G)
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, err := Render(ctx, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, img)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"huge width", func(c *Config) { c.Width = 1 << 20 }},
		{"huge height", func(c *Config) { c.Height = MaxDimension + 1 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"negative iterations", func(c *Config) { c.MaxIterations = -1 }},
		{"zero escape radius", func(c *Config) { c.EscapeRadius = 0 }},
		{"zero span", func(c *Config) { c.Span = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}

	assert.NoError(t, DefaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

			_, err := Render(context.Background(), cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name     string
		z, c     complex64
		maxIter  int
		expected int
	}{
		{"outside radius", 3, 0, 255, 0},
		{"one step", 1.5, 0, 255, 1},
		{"fixed point", 0, 0, 255, 255},
		{"respects cap", 0, 0, 10, 10},
		{"zero cap", 0, 0, 0, 0},
		{"on the radius", 2, 0, 255, 1},
		{"julia constant from origin", 0, complex(-0.4, 0.6), 255, 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Escape(tt.z, tt.c, tt.maxIter, 2.0))
		})
	}
}

func TestSaturate(t *testing.T) {
	assert.Equal(t, uint8(0), saturate(-5))
	assert.Equal(t, uint8(0), saturate(0.9))
	assert.Equal(t, uint8(239), saturate(239.7))
	assert.Equal(t, uint8(255), saturate(255))
	assert.Equal(t, uint8(255), saturate(1e9))
}
