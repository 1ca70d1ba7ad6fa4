// Package render draws a board as a PNG image.
package render

import (
    "bytes"
    "context"
    "embed"
    "fmt"
    "image"
    "image/color"
    "image/draw"
    "image/png"
    "sync"

    "github.com/srwiley/oksvg"
    "github.com/srwiley/rasterx"
    "golang.org/x/image/font"
    "golang.org/x/image/font/basicfont"
    "golang.org/x/image/math/fixed"

    "github.com/jaminalder/tictactoe-minimax/internal/domain"
)

//go:embed assets/*.svg
var markFiles embed.FS

var (
    background = color.RGBA{0xfd, 0xfd, 0xf8, 0xff}
    gridColor  = color.RGBA{0x33, 0x33, 0x33, 0xff}
    textColor  = color.RGBA{0x22, 0x22, 0x22, 0xff}
    winColor   = color.RGBA{0xf7, 0xdc, 0x6f, 0xff}
)

const (
    defaultCellSize = 96
    gridWidth       = 4
    margin          = 12
    captionHeight   = 28
)

// Options tune a single render.
type Options struct {
    CellSize int
    Caption  string
}

// PNG draws b with an optional caption band and returns the encoded image.
// Cells of a winning line are highlighted.
func PNG(ctx context.Context, b domain.Board, opts Options) ([]byte, error) {
    size := opts.CellSize
    if size <= 0 {
        size = defaultCellSize
    }
    boardSize := size*3 + gridWidth*2
    width := boardSize + margin*2
    height := boardSize + margin*2
    if opts.Caption != "" {
        height += captionHeight
    }

    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    default:
    }

    img := image.NewRGBA(image.Rect(0, 0, width, height))
    draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

    win := winningCells(b)
    for i, c := range b {
        cell := cellRect(i, size)
        if win[i] {
            draw.Draw(img, cell, image.NewUniform(winColor), image.Point{}, draw.Src)
        }
        if c == domain.Empty {
            continue
        }
        mark, err := markImage(c, size)
        if err != nil {
            return nil, err
        }
        draw.Draw(img, cell, mark, image.Point{}, draw.Over)
    }
    drawGrid(img, size)
    if opts.Caption != "" {
        drawCaption(img, opts.Caption, boardSize+margin*2)
    }

    var buf bytes.Buffer
    if err := png.Encode(&buf, img); err != nil {
        return nil, fmt.Errorf("encode png: %w", err)
    }
    return buf.Bytes(), nil
}

func cellRect(i, size int) image.Rectangle {
    r, c := i/3, i%3
    x := margin + c*(size+gridWidth)
    y := margin + r*(size+gridWidth)
    return image.Rect(x, y, x+size, y+size)
}

func drawGrid(img *image.RGBA, size int) {
    span := size*3 + gridWidth*2
    src := image.NewUniform(gridColor)
    for k := 1; k <= 2; k++ {
        off := margin + k*size + (k-1)*gridWidth
        draw.Draw(img, image.Rect(off, margin, off+gridWidth, margin+span), src, image.Point{}, draw.Src)
        draw.Draw(img, image.Rect(margin, off, margin+span, off+gridWidth), src, image.Point{}, draw.Src)
    }
}

func drawCaption(img *image.RGBA, text string, top int) {
    face := basicfont.Face7x13
    width := font.MeasureString(face, text).Ceil()
    x := (img.Bounds().Dx() - width) / 2
    if x < margin {
        x = margin
    }
    d := &font.Drawer{
        Dst:  img,
        Src:  image.NewUniform(textColor),
        Face: face,
        Dot:  fixed.P(x, top+captionHeight/2),
    }
    d.DrawString(text)
}

// winningCells marks the cells of every completed line.
func winningCells(b domain.Board) [9]bool {
    var out [9]bool
    res := domain.Outcome(b)
    if res.Status != domain.Won {
        return out
    }
    for _, ln := range domain.WinningLines(b, res.Winner) {
        out[ln[0]], out[ln[1]], out[ln[2]] = true, true, true
    }
    return out
}

type markCacheKey struct {
    mark domain.Cell
    size int
}

var (
    markCache   = map[markCacheKey]image.Image{}
    markCacheMu sync.RWMutex
)

func markImage(mark domain.Cell, size int) (image.Image, error) {
    key := markCacheKey{mark: mark, size: size}

    markCacheMu.RLock()
    if img, ok := markCache[key]; ok {
        markCacheMu.RUnlock()
        return img, nil
    }
    markCacheMu.RUnlock()

    name := "assets/x.svg"
    if mark == domain.O {
        name = "assets/o.svg"
    }
    data, err := markFiles.ReadFile(name)
    if err != nil {
        return nil, fmt.Errorf("read mark asset %s: %w", name, err)
    }
    icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
    if err != nil {
        return nil, fmt.Errorf("parse mark svg: %w", err)
    }
    icon.SetTarget(0, 0, float64(size), float64(size))

    img := image.NewRGBA(image.Rect(0, 0, size, size))
    scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
    raster := rasterx.NewDasher(size, size, scanner)
    icon.Draw(raster, 1.0)

    markCacheMu.Lock()
    markCache[key] = img
    markCacheMu.Unlock()
    return img, nil
}
