package render

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"
)

// stuck is a renderer that never completes.
type stuck struct{}

func (stuck) RenderPage(ctx context.Context, page int, scale float64) (image.Image, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// fixed returns a preset image immediately.
type fixed struct{ img image.Image }

func (f fixed) RenderPage(ctx context.Context, page int, scale float64) (image.Image, error) {
	return f.img, nil
}

func TestWithTimeoutMapsDeadline(t *testing.T) {
	_, err := WithTimeout(stuck{}, 1, 1, 10*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("WithTimeout(stuck) = %v, want ErrTimeout", err)
	}
}

func TestWithTimeoutPassesResult(t *testing.T) {
	want := image.NewRGBA(image.Rect(0, 0, 4, 4))
	got, err := WithTimeout(fixed{want}, 1, 1, time.Second)
	if err != nil {
		t.Fatalf("WithTimeout = %v", err)
	}
	if got != image.Image(want) {
		t.Error("WithTimeout did not return the renderer's image")
	}
}

func TestBlankRendererSize(t *testing.T) {
	b := &Blank{PageDim: func(page int) (float64, float64, error) {
		return 612, 792, nil
	}}

	tests := []struct {
		name         string
		scale        float64
		wantW, wantH int
	}{
		{"identity", 1, 612, 792},
		{"double", 2, 1224, 1584},
		{"zero defaults to one", 0, 612, 792},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := b.RenderPage(context.Background(), 1, tt.scale)
			if err != nil {
				t.Fatalf("RenderPage = %v", err)
			}
			bounds := img.Bounds()
			if bounds.Dx() != tt.wantW || bounds.Dy() != tt.wantH {
				t.Errorf("bounds = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestBlankRendererIsWhite(t *testing.T) {
	b := &Blank{PageDim: func(page int) (float64, float64, error) {
		return 10, 10, nil
	}}
	img, err := b.RenderPage(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("RenderPage = %v", err)
	}
	r, g, bl, a := img.At(5, 5).RGBA()
	if r != 0xffff || g != 0xffff || bl != 0xffff || a != 0xffff {
		t.Errorf("pixel = (%d, %d, %d, %d), want opaque white", r, g, bl, a)
	}
}
