package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/image-toolbox/internal/fractal"
	"github.com/rm-hull/image-toolbox/internal/raster"
	"github.com/rm-hull/image-toolbox/internal/raster/stage"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

const (
	// maxDimension bounds the canvas size a single request may ask for or upload
	maxDimension = 4096
	// maxUploadBytes bounds the request body accepted by /v1/transform
	maxUploadBytes = 32 << 20
)

func ApiServer(port int, debug bool) error {
	r, err := NewRouter(debug)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %w", port, err)
	}
	return nil
}

func NewRouter(debug bool) (*gin.Engine, error) {
	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	if err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{}); err != nil {
		return nil, fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	v1 := r.Group("/v1")
	v1.GET("/fractal.png", fractalHandler)
	v1.GET("/generate/:rgb", generateHandler)
	v1.POST("/transform", transformHandler)

	return r, nil
}

func fractalHandler(c *gin.Context) {
	cfg := fractal.DefaultConfig()

	err := errors.Join(
		queryInt(c, "width", &cfg.Width),
		queryInt(c, "height", &cfg.Height),
		queryFloat32(c, "real", &cfg.Real),
		queryFloat32(c, "imag", &cfg.Imag),
		queryInt(c, "max_iterations", &cfg.MaxIterations),
		queryFloat32(c, "escape_radius", &cfg.EscapeRadius),
	)
	if err == nil {
		err = checkDimensions(cfg.Width, cfg.Height)
	}
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	img, err := fractal.Render(c.Request.Context(), cfg)
	if errors.Is(err, fractal.ErrInvalidConfig) {
		abortWithError(c, http.StatusBadRequest, err)
		return
	} else if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	writeImage(c, raster.New(img), raster.PNG)
}

func generateHandler(c *gin.Context) {
	col, err := stage.ParseColor(c.Param("rgb"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	size := image.Pt(800, 800)
	if s := c.Query("size"); s != "" {
		if size, err = stage.ParseSize(s); err != nil {
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
	}
	if err := checkDimensions(size.X, size.Y); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	format, ok := queryFormat(c)
	if !ok {
		return
	}

	writeImage(c, raster.Solid(size.X, size.Y, col), format)
}

func transformHandler(c *gin.Context) {
	stages, err := stage.Parse(strings.Fields(c.Query("steps")))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	for _, st := range stages {
		if resize, ok := st.(*stage.ResizeStage); ok {
			if err := checkDimensions(resize.Size.X, resize.Size.Y); err != nil {
				abortWithError(c, http.StatusBadRequest, err)
				return
			}
		}
	}

	format, ok := queryFormat(c)
	if !ok {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			abortWithError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit))
			return
		}
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err))
		return
	}

	// the header is checked before decoding so a small body cannot claim a huge canvas
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("failed to decode image: %w", err))
		return
	}
	if err := checkDimensions(header.Width, header.Height); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	img, err := raster.NewFromReader(bytes.NewReader(data))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("failed to decode image: %w", err))
		return
	}

	if err := img.Pipeline(stages...); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	writeImage(c, img, format)
}

func writeImage(c *gin.Context, img *raster.Image, format raster.Format) {
	var buf bytes.Buffer
	if err := img.Encode(&buf, format); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func checkDimensions(width, height int) error {
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("requested size %dx%d exceeds the %dx%d limit", width, height, maxDimension, maxDimension)
	}
	return nil
}

func queryFormat(c *gin.Context) (raster.Format, bool) {
	format, err := raster.ParseFormat(c.DefaultQuery("format", "png"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return "", false
	}
	return format, true
}

func queryInt(c *gin.Context, name string, dst *int) error {
	s, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("query parameter %s: %w", name, err)
	}
	*dst = v
	return nil
}

func queryFloat32(c *gin.Context, name string, dst *float32) error {
	s, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return fmt.Errorf("query parameter %s: %w", name, err)
	}
	*dst = float32(v)
	return nil
}
