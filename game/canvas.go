/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const DefaultStrokeColor = "#000000"
const DefaultStrokeWidth = 4

// MaxStrokePoints is the most points a stroke holds, the snapshot encoding counts them in a uint16
const MaxStrokePoints = math.MaxUint16

var StrokeColors = []string{"#000000", "#3B82F6", "#10B981", "#F97316", "#EF4444", "#8B5CF6", "#F59E0B", "#EC4899"}
var StrokeWidths = []int{2, 4, 8, 12}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// a committed stroke, never edited after it is appended to the canvas
type Path struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  int     `json:"width"`
}

// D renders the points as a connected polyline in svg path syntax
func (path Path) D() string {
	return polyline(path.Points)
}

func polyline(points []Point) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		sb.WriteString(",")
		sb.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	return sb.String()
}

// Canvas captures freehand strokes as vector paths: one stroke in progress at most, plus the committed paths.
// Like Session it is owned by a single goroutine.
type Canvas struct {
	paths    []Path
	current  []Point // nil when no stroke is in progress
	erasing  bool
	disabled bool
}

func NewCanvas() *Canvas {
	return &Canvas{paths: make([]Path, 0)}
}

// BeginStroke starts a new stroke at the point, dropping any uncommitted one
func (canvas *Canvas) BeginStroke(p Point) {
	if canvas.disabled {
		return
	}
	canvas.current = []Point{p}
}

// ExtendStroke adds a point to the stroke in progress, points past MaxStrokePoints are dropped
func (canvas *Canvas) ExtendStroke(p Point) {
	if canvas.disabled || canvas.current == nil || len(canvas.current) >= MaxStrokePoints {
		return
	}
	canvas.current = append(canvas.current, p)
}

// CommitStroke appends the stroke in progress as a path. While erasing or disabled the stroke is discarded instead.
// A single point commits too and renders as a dot.
func (canvas *Canvas) CommitStroke(color string, width int) (Path, bool) {
	points := canvas.current
	canvas.current = nil
	if len(points) == 0 || canvas.erasing || canvas.disabled {
		return Path{}, false
	}

	path := Path{ID: uuid.NewString(), Points: points, Color: color, Width: width}
	canvas.paths = append(canvas.paths, path)
	return path.clone(), true
}

func (canvas *Canvas) ClearCanvas() {
	canvas.paths = make([]Path, 0)
	canvas.current = nil
}

// erasing only suppresses new strokes, committed paths under the pointer stay
// TODO: remove paths under the pointer if the eraser is meant to be subtractive
func (canvas *Canvas) SetErasing(erasing bool) {
	canvas.erasing = erasing
}

func (canvas *Canvas) Erasing() bool {
	return canvas.erasing
}

// SetDisabled toggles input, disabling drops the stroke in progress
func (canvas *Canvas) SetDisabled(disabled bool) {
	canvas.disabled = disabled
	if disabled {
		canvas.current = nil
	}
}

func (canvas *Canvas) Disabled() bool {
	return canvas.disabled
}

func (canvas *Canvas) Paths() []Path {
	paths := make([]Path, len(canvas.paths))
	for i, path := range canvas.paths {
		paths[i] = path.clone()
	}
	return paths
}

// Current returns the points of the stroke in progress, nil if there is none
func (canvas *Canvas) Current() []Point {
	if canvas.current == nil {
		return nil
	}
	return append(make([]Point, 0, len(canvas.current)), canvas.current...)
}

func (path Path) clone() Path {
	path.Points = append(make([]Point, 0, len(path.Points)), path.Points...)
	return path
}

// header for each path in the binary encoding, followed by the points as float32 pairs
type pathHeader struct {
	Color      uint8
	Width      uint8
	PointCount uint16
}

type encodedPoint struct {
	X float32
	Y float32
}

func paletteIndex(color string) uint8 {
	for i, c := range StrokeColors {
		if strings.EqualFold(c, color) {
			return uint8(i)
		}
	}
	return 0
}

func ValidStrokeColor(color string) bool {
	for _, c := range StrokeColors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

// EncodePaths serializes the committed paths into a compact base64 string for state snapshots
func (canvas *Canvas) EncodePaths() string {
	if len(canvas.paths) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for _, path := range canvas.paths {
		header := pathHeader{
			Color:      paletteIndex(path.Color),
			Width:      uint8(path.Width),
			PointCount: uint16(len(path.Points)),
		}
		points := make([]encodedPoint, len(path.Points))
		for i, p := range path.Points {
			points[i] = encodedPoint{X: float32(p.X), Y: float32(p.Y)}
		}
		if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
			log.Error().Err(err).Msg("Failed to encode path header")
			return ""
		}
		if err := binary.Write(&buf, binary.LittleEndian, points); err != nil {
			log.Error().Err(err).Msg("Failed to encode path points")
			return ""
		}
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodePaths reads paths written by EncodePaths, ids are not part of the encoding
func DecodePaths(s string) ([]Path, error) {
	paths := make([]Path, 0)
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(b)
	for r.Len() > 0 {
		var header pathHeader
		if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
			return nil, err
		}
		points := make([]encodedPoint, header.PointCount)
		if err := binary.Read(r, binary.LittleEndian, points); err != nil {
			return nil, err
		}

		path := Path{
			Points: make([]Point, len(points)),
			Color:  StrokeColors[int(header.Color)%len(StrokeColors)],
			Width:  int(header.Width),
		}
		for i, p := range points {
			path.Points[i] = Point{X: float64(p.X), Y: float64(p.Y)}
		}
		paths = append(paths, path)
	}
	return paths, nil
}
