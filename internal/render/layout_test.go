package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testOptions = LayoutOptions{RoomListWidth: "20%", RoomListMinWidth: 16, RoomListMaxWidth: "40"}

func TestComputeLayout(t *testing.T) {
	got := ComputeLayout(100, 40, testOptions)
	want := Layout{
		Width:    100,
		Height:   40,
		Rooms:    Rect{X: 0, Y: 0, W: 20, H: 29},
		UserInfo: Rect{X: 0, Y: 29, W: 20, H: 10},
		RoomInfo: Rect{X: 20, Y: 0, W: 60, H: 3},
		Messages: Rect{X: 20, Y: 3, W: 60, H: 33},
		Input:    Rect{X: 20, Y: 36, W: 60, H: 3},
		Users:    Rect{X: 80, Y: 0, W: 20, H: 29},
		Usage:    Rect{X: 80, Y: 29, W: 20, H: 10},
		Status:   Rect{X: 0, Y: 39, W: 100, H: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeLayoutSmallScreen(t *testing.T) {
	got := ComputeLayout(40, 8, testOptions)
	if got.Rooms.W != 10 || got.Users.X != 30 {
		t.Fatalf("side columns = %+v / %+v", got.Rooms, got.Users)
	}
	if got.Rooms.H+got.UserInfo.H != 7 {
		t.Fatalf("left column height = %d, want 7", got.Rooms.H+got.UserInfo.H)
	}
	if got.RoomInfo.H+got.Messages.H+got.Input.H != 7 {
		t.Fatalf("middle column = %+v %+v %+v", got.RoomInfo, got.Messages, got.Input)
	}
	if got.Input.Y+got.Input.H != got.Status.Y {
		t.Fatalf("input %+v does not sit on status %+v", got.Input, got.Status)
	}
}

func TestComputeLayoutEmpty(t *testing.T) {
	got := ComputeLayout(0, 0, testOptions)
	if !got.Input.Empty() || !got.Status.Empty() {
		t.Fatalf("expected empty rects, got %+v", got)
	}
}

func TestParseWidthValue(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"30", 30},
		{"1/4", 25},
		{"25%", 25},
		{" 10 ", 10},
		{"1/0", 0},
		{"wide", 0},
	}
	for _, tt := range tests {
		if got := parseWidthValue(tt.in, 100); got != tt.want {
			t.Fatalf("parseWidthValue(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRectInner(t *testing.T) {
	if got := (Rect{X: 2, Y: 3, W: 10, H: 3}).Inner(); got != (Rect{X: 3, Y: 4, W: 8, H: 1}) {
		t.Fatalf("Inner = %+v", got)
	}
	if got := (Rect{W: 1, H: 1}).Inner(); !got.Empty() {
		t.Fatalf("Inner of 1x1 = %+v, want empty", got)
	}
}
