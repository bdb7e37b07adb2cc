// Package convolve applies square kernels to pixel buffers with
// edge-clamped sampling.
package convolve

import (
	"context"

	"github.com/anime-shed/photo-enhancer/internal/parallel"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
)

var sequential = parallel.NewPool(1)

// Apply convolves src with k and returns a new buffer of the same size.
// Samples outside the image are clamped to the nearest edge pixel so borders
// are not darkened. R, G and B are convolved independently; alpha is
// convolved only for smoothing kernels and copied otherwise.
func Apply(ctx context.Context, pool *parallel.Pool, src *pixbuf.Buffer, k Kernel) (*pixbuf.Buffer, error) {
	if pool == nil {
		pool = sequential
	}
	dst := &pixbuf.Buffer{Width: src.Width, Height: src.Height, Pix: make([]byte, len(src.Pix))}
	if src.Empty() {
		return dst, nil
	}

	half := k.Size / 2
	err := pool.Rows(ctx, src.Height, func(_, y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.Width; x++ {
				var r, g, b, a float64
				for ky := 0; ky < k.Size; ky++ {
					row := ky * k.Size
					for kx := 0; kx < k.Size; kx++ {
						w := float64(k.Weights[row+kx])
						if w == 0 {
							continue
						}
						i := src.ClampedOffset(x+kx-half, y+ky-half)
						r += w * float64(src.Pix[i])
						g += w * float64(src.Pix[i+1])
						b += w * float64(src.Pix[i+2])
						a += w * float64(src.Pix[i+3])
					}
				}

				o := dst.Offset(x, y)
				dst.Pix[o] = pixbuf.ClampByte(r)
				dst.Pix[o+1] = pixbuf.ClampByte(g)
				dst.Pix[o+2] = pixbuf.ClampByte(b)
				if k.Smoothing {
					dst.Pix[o+3] = pixbuf.ClampByte(a)
				} else {
					dst.Pix[o+3] = src.Pix[o+3]
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// Separable convolves src with the outer product of k1d with itself, as a
// horizontal pass followed by a vertical pass. The intermediate is kept in
// float32 so the result stays within one level of Apply with the equivalent
// 2D kernel. All four channels are smoothed.
func Separable(ctx context.Context, pool *parallel.Pool, src *pixbuf.Buffer, k1d []float32) (*pixbuf.Buffer, error) {
	if pool == nil {
		pool = sequential
	}
	dst := &pixbuf.Buffer{Width: src.Width, Height: src.Height, Pix: make([]byte, len(src.Pix))}
	if src.Empty() {
		return dst, nil
	}

	half := len(k1d) / 2
	tmp := make([]float32, len(src.Pix))

	err := pool.Rows(ctx, src.Height, func(_, y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.Width; x++ {
				var acc [pixbuf.Channels]float32
				for k, w := range k1d {
					i := src.ClampedOffset(x+k-half, y)
					for c := 0; c < pixbuf.Channels; c++ {
						acc[c] += w * float32(src.Pix[i+c])
					}
				}
				o := src.Offset(x, y)
				copy(tmp[o:o+pixbuf.Channels], acc[:])
			}
		}
	})
	if err != nil {
		return nil, err
	}

	err = pool.Rows(ctx, src.Height, func(_, y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.Width; x++ {
				var acc [pixbuf.Channels]float32
				for k, w := range k1d {
					i := src.ClampedOffset(x, y+k-half)
					for c := 0; c < pixbuf.Channels; c++ {
						acc[c] += w * tmp[i+c]
					}
				}
				o := dst.Offset(x, y)
				for c := 0; c < pixbuf.Channels; c++ {
					dst.Pix[o+c] = pixbuf.ClampByte(float64(acc[c]))
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
