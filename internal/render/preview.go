package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Cell is one terminal cell of a half-block preview: the upper half shows
// Top and the lower half Bottom.
type Cell struct {
	Top, Bottom color.RGBA
}

// HalfBlocks scales img to fit cols x rows terminal cells, two pixels per
// cell vertically, preserving the aspect ratio.
func HalfBlocks(img image.Image, cols, rows int) [][]Cell {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 || cols <= 0 || rows <= 0 {
		return nil
	}

	targetW, targetH := cols, srcH*cols/srcW
	if targetH > rows*2 {
		targetH = rows * 2
		targetW = srcW * targetH / srcH
	}
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	grid := make([][]Cell, (targetH+1)/2)
	for y := range grid {
		row := make([]Cell, targetW)
		for x := range row {
			row[x].Top = dst.RGBAAt(x, 2*y)
			if 2*y+1 < targetH {
				row[x].Bottom = dst.RGBAAt(x, 2*y+1)
			} else {
				row[x].Bottom = row[x].Top
			}
		}
		grid[y] = row
	}
	return grid
}
