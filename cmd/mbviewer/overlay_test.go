package main

import "testing"

func TestComputeContainRect(t *testing.T) {
	cases := []struct {
		name                       string
		imgW, imgH, viewW, viewH   float32
		wantX, wantY, wantW, wantH float32
	}{
		{"exact", 1100, 600, 1100, 600, 0, 0, 1100, 600},
		{"wider view letterboxes left/right", 1000, 500, 1200, 500, 100, 0, 1000, 500},
		{"taller view letterboxes top/bottom", 1000, 500, 500, 500, 0, 125, 500, 250},
	}
	for _, c := range cases {
		x, y, w, h, _ := computeContainRect(c.imgW, c.imgH, c.viewW, c.viewH)
		if x != c.wantX || y != c.wantY || w != c.wantW || h != c.wantH {
			t.Fatalf("%s: got (%v,%v,%v,%v)", c.name, x, y, w, h)
		}
	}
	if _, _, _, _, s := computeContainRect(0, 10, 10, 10); s != 0 {
		t.Fatalf("empty image should give zero scale")
	}
}

func TestViewToImage(t *testing.T) {
	// image drawn at half size, centred vertically with 125px bars
	x, y, ok := viewToImage(1000, 500, 500, 500, 250, 250)
	if !ok || x != 500 || y != 250 {
		t.Fatalf("centre: %v %v %v", x, y, ok)
	}
	if _, _, ok := viewToImage(1000, 500, 500, 500, 250, 50); ok {
		t.Fatalf("letterbox tap should not map")
	}
}
