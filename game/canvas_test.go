/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func drawStroke(canvas *Canvas, points ...Point) {
	for i, p := range points {
		if i == 0 {
			canvas.BeginStroke(p)
		} else {
			canvas.ExtendStroke(p)
		}
	}
}

func TestCanvas_CommitStroke(t *testing.T) {
	canvas := NewCanvas()
	drawStroke(canvas, Point{X: 1, Y: 2}, Point{X: 3, Y: 4}, Point{X: 5.5, Y: 6})

	path, ok := canvas.CommitStroke("#3B82F6", 8)
	if !ok {
		t.Fatalf("Expected the stroke to be committed")
	}
	if path.ID == "" {
		t.Fatalf("Expected the committed path to have an id")
	}
	if path.D() != "M1,2 L3,4 L5.5,6" {
		t.Fatalf("Unexpected path data %s", path.D())
	}
	if canvas.Current() != nil {
		t.Fatalf("Expected no stroke in progress after commit")
	}

	paths := canvas.Paths()
	if len(paths) != 1 || paths[0].Color != "#3B82F6" || paths[0].Width != 8 {
		t.Fatalf("Expected one committed path with the stroke color and width, got %+v", paths)
	}
}

func TestCanvas_CommitSinglePoint(t *testing.T) {
	canvas := NewCanvas()
	canvas.BeginStroke(Point{X: 10, Y: 10})

	path, ok := canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth)
	if !ok || path.D() != "M10,10" {
		t.Fatalf("Expected a single point stroke to be committed as a dot, got %s", path.D())
	}
}

func TestCanvas_CommitWithoutStroke(t *testing.T) {
	canvas := NewCanvas()

	if _, ok := canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth); ok {
		t.Fatalf("Expected nothing to commit")
	}
	if len(canvas.Paths()) != 0 {
		t.Fatalf("Expected the canvas to stay empty")
	}
}

func TestCanvas_ExtendWithoutBegin(t *testing.T) {
	canvas := NewCanvas()
	canvas.ExtendStroke(Point{X: 1, Y: 1})

	if canvas.Current() != nil {
		t.Fatalf("Extending without a stroke in progress should do nothing")
	}
}

func TestCanvas_BeginDropsUncommitted(t *testing.T) {
	canvas := NewCanvas()
	drawStroke(canvas, Point{X: 1, Y: 1}, Point{X: 2, Y: 2})
	canvas.BeginStroke(Point{X: 9, Y: 9})

	if diff := cmp.Diff([]Point{{X: 9, Y: 9}}, canvas.Current()); diff != "" {
		t.Fatalf("Expected begin to restart the stroke (-want +got):\n%s", diff)
	}
}

func TestCanvas_Erasing(t *testing.T) {
	canvas := NewCanvas()
	drawStroke(canvas, Point{X: 1, Y: 1}, Point{X: 2, Y: 2})
	canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth)

	canvas.SetErasing(true)
	drawStroke(canvas, Point{X: 1, Y: 1}, Point{X: 2, Y: 2})
	if _, ok := canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth); ok {
		t.Fatalf("Expected the stroke to be discarded while erasing")
	}
	if len(canvas.Paths()) != 1 {
		t.Fatalf("Erasing should leave committed paths alone")
	}
	if canvas.Current() != nil {
		t.Fatalf("Expected the discarded stroke to be cleared")
	}

	canvas.SetErasing(false)
	drawStroke(canvas, Point{X: 3, Y: 3})
	if _, ok := canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth); !ok {
		t.Fatalf("Expected strokes to commit again after erasing is turned off")
	}
}

func TestCanvas_Disabled(t *testing.T) {
	canvas := NewCanvas()
	canvas.SetDisabled(true)
	drawStroke(canvas, Point{X: 1, Y: 1}, Point{X: 2, Y: 2})

	if canvas.Current() != nil {
		t.Fatalf("A disabled canvas should ignore pointer input")
	}
	if _, ok := canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth); ok {
		t.Fatalf("Expected nothing to commit on a disabled canvas")
	}
}

func TestCanvas_DisableDropsStroke(t *testing.T) {
	canvas := NewCanvas()
	drawStroke(canvas, Point{X: 1, Y: 1}, Point{X: 2, Y: 2})

	canvas.SetDisabled(true)
	if canvas.Current() != nil {
		t.Fatalf("Expected disabling to drop the stroke in progress")
	}
	canvas.SetDisabled(false)
	if _, ok := canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth); ok {
		t.Fatalf("A stroke begun before the pause should not commit after it")
	}
	if len(canvas.Paths()) != 0 {
		t.Fatalf("Expected no paths, got %d", len(canvas.Paths()))
	}
}

func TestCanvas_ClearCanvas(t *testing.T) {
	canvas := NewCanvas()
	drawStroke(canvas, Point{X: 1, Y: 1})
	canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth)
	drawStroke(canvas, Point{X: 2, Y: 2})

	canvas.ClearCanvas()

	if len(canvas.Paths()) != 0 || canvas.Current() != nil {
		t.Fatalf("Expected clear to remove committed paths and the stroke in progress")
	}
}

func TestCanvas_PathsAreCopies(t *testing.T) {
	canvas := NewCanvas()
	drawStroke(canvas, Point{X: 1, Y: 1}, Point{X: 2, Y: 2})
	canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth)

	paths := canvas.Paths()
	paths[0].Points[0] = Point{X: 100, Y: 100}

	if canvas.Paths()[0].Points[0] != (Point{X: 1, Y: 1}) {
		t.Fatalf("Committed paths must not change after they are appended")
	}
}

func TestCanvas_EncodePaths(t *testing.T) {
	canvas := NewCanvas()
	if canvas.EncodePaths() != "" {
		t.Fatalf("Expected an empty canvas to encode to an empty string")
	}

	drawStroke(canvas, Point{X: 1, Y: 2}, Point{X: 3.5, Y: 4})
	canvas.CommitStroke("#10B981", 12)
	drawStroke(canvas, Point{X: 100, Y: 200})
	canvas.CommitStroke("#ec4899", 2)

	paths, err := DecodePaths(canvas.EncodePaths())
	if err != nil {
		t.Fatalf("Failed to decode paths: %v", err)
	}

	expected := []Path{
		{Points: []Point{{X: 1, Y: 2}, {X: 3.5, Y: 4}}, Color: "#10B981", Width: 12},
		{Points: []Point{{X: 100, Y: 200}}, Color: "#EC4899", Width: 2},
	}
	if diff := cmp.Diff(expected, paths, cmpopts.IgnoreFields(Path{}, "ID")); diff != "" {
		t.Fatalf("Decoded paths differ (-want +got):\n%s", diff)
	}
}

func TestDecodePaths_Truncated(t *testing.T) {
	if _, err := DecodePaths("AQIDAA=="); err == nil {
		t.Fatalf("Expected an error for a header without its points")
	}
}

func TestCanvas_EncodePaths_LongStroke(t *testing.T) {
	canvas := NewCanvas()
	canvas.BeginStroke(Point{X: 0, Y: 0})
	for i := 1; i < MaxStrokePoints+2; i++ {
		canvas.ExtendStroke(Point{X: float64(i % 4096), Y: 1})
	}
	if len(canvas.Current()) != MaxStrokePoints {
		t.Fatalf("Expected the stroke to stop at %d points, got %d", MaxStrokePoints, len(canvas.Current()))
	}
	canvas.CommitStroke(DefaultStrokeColor, DefaultStrokeWidth)
	drawStroke(canvas, Point{X: 5, Y: 6}, Point{X: 7, Y: 8})
	canvas.CommitStroke("#EF4444", 4)

	paths, err := DecodePaths(canvas.EncodePaths())
	if err != nil {
		t.Fatalf("Failed to decode paths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 decoded paths, got %d", len(paths))
	}
	if len(paths[0].Points) != MaxStrokePoints {
		t.Fatalf("Expected %d points in the long path, got %d", MaxStrokePoints, len(paths[0].Points))
	}
	expected := Path{Points: []Point{{X: 5, Y: 6}, {X: 7, Y: 8}}, Color: "#EF4444", Width: 4}
	if diff := cmp.Diff(expected, paths[1], cmpopts.IgnoreFields(Path{}, "ID")); diff != "" {
		t.Fatalf("Decoded path differs (-want +got):\n%s", diff)
	}
}
