package app

import (
	"math"
	"sync"
	"time"

	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/render"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/utils"
)

// Bursts of keystrokes repaint the preview once.
const previewDebounceDuration = 40 * time.Millisecond

// previewManager rasterizes the scene in the background and keeps the
// latest half-block cells for the draw loop.
type previewManager struct {
	scene     *scene.Scene
	fonts     *fonts.Registry
	appRedraw func()
	debouncer utils.Debouncer

	mu        sync.Mutex // protects everything below
	cols      int
	rows      int
	highlight string
	cells     [][]render.Cell
	isRunning bool
	pending   bool // a request arrived while a render was running
	stopped   bool
}

func newPreviewManager(sc *scene.Scene, reg *fonts.Registry, redrawFunc func()) *previewManager {
	return &previewManager{
		scene:     sc,
		fonts:     reg,
		appRedraw: redrawFunc,
	}
}

// Resize sets the preview area in cells and reports whether it changed.
func (pm *previewManager) Resize(cols, rows int) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.cols == cols && pm.rows == rows {
		return false
	}
	pm.cols, pm.rows = cols, rows
	return true
}

// Schedule asks for a repaint outlining the object highlight ("" for none).
func (pm *previewManager) Schedule(highlight string) {
	pm.mu.Lock()
	pm.highlight = highlight
	stopped := pm.stopped
	pm.mu.Unlock()
	if stopped {
		return
	}
	pm.debouncer.Debounce(previewDebounceDuration, pm.run)
}

// Cells returns the latest preview. The slice must not be modified.
func (pm *previewManager) Cells() [][]render.Cell {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.cells
}

// run rasterizes once, then again if requests arrived meanwhile.
func (pm *previewManager) run() {
	pm.mu.Lock()
	if pm.isRunning {
		pm.pending = true
		pm.mu.Unlock()
		logger.DebugTagf("preview", "Preview: render running, queued another")
		return
	}
	pm.isRunning = true
	pm.mu.Unlock()

	for {
		pm.mu.Lock()
		cols, rows, highlight := pm.cols, pm.rows, pm.highlight
		pm.pending = false
		pm.mu.Unlock()

		cells := pm.render(cols, rows, highlight)

		pm.mu.Lock()
		if !pm.stopped {
			pm.cells = cells
		}
		again := pm.pending && !pm.stopped
		if !again {
			pm.isRunning = false
		}
		pm.mu.Unlock()

		pm.appRedraw()
		if !again {
			return
		}
	}
}

func (pm *previewManager) render(cols, rows int, highlight string) [][]render.Cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	start := time.Now()
	img, err := render.Rasterize(pm.scene, pm.fonts, render.Options{
		Multiplier: previewMultiplier(pm.scene, cols, rows),
		Highlight:  highlight,
	})
	if err != nil {
		logger.Warnf("Preview: rasterize failed: %v", err)
		return nil
	}
	cells := render.HalfBlocks(img, cols, rows)
	logger.DebugTagf("preview", "Preview: %dx%d cells in %v", cols, rows, time.Since(start))
	return cells
}

// previewMultiplier renders at about twice the cell resolution so the
// downscale has pixels to average, never above the canvas size.
func previewMultiplier(sc *scene.Scene, cols, rows int) float64 {
	w, h := sc.Size()
	if w <= 0 || h <= 0 {
		return 1
	}
	m := math.Max(2*float64(cols)/float64(w), 4*float64(rows)/float64(h))
	return math.Min(1, m)
}

// Shutdown cancels a pending render and drops later results.
func (pm *previewManager) Shutdown() {
	pm.mu.Lock()
	pm.stopped = true
	pm.mu.Unlock()
	pm.debouncer.Stop()
}
