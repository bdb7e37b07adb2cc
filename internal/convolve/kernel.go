package convolve

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Kernel is a square convolution kernel stored row-major
type Kernel struct {
	Size    int
	Weights []float32

	// Smoothing kernels average alpha together with colour; sharpening
	// kernels leave alpha untouched.
	Smoothing bool
}

// NewKernel validates and wraps a row-major weight slice
func NewKernel(size int, weights []float32, smoothing bool) (Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("kernel size must be a positive odd number, got %d", size)
	}
	if len(weights) != size*size {
		return Kernel{}, fmt.Errorf("kernel of size %d needs %d weights, got %d", size, size*size, len(weights))
	}
	return Kernel{Size: size, Weights: weights, Smoothing: smoothing}, nil
}

// Sharpen is the 3x3 unsharp mask. Its weights sum to 1 but the centre
// boost raises local contrast at edges.
func Sharpen() Kernel {
	return Kernel{
		Size: 3,
		Weights: []float32{
			0, -1, 0,
			-1, 5, -1,
			0, -1, 0,
		},
	}
}

// Gaussian samples a 2D Gaussian of the given radius with sigma = radius/3,
// normalized so the weights sum to 1. Radius 0 is the identity kernel.
func Gaussian(radius int) Kernel {
	if radius < 0 {
		radius = 0
	}
	size := 2*radius + 1
	weights := make([]float32, size*size)
	if radius == 0 {
		weights[0] = 1
		return Kernel{Size: 1, Weights: weights, Smoothing: true}
	}

	sigma := float32(radius) / 3
	twoSigmaSq := 2 * sigma * sigma
	var sum float32
	for ky := -radius; ky <= radius; ky++ {
		for kx := -radius; kx <= radius; kx++ {
			w := math32.Exp(-float32(kx*kx+ky*ky) / twoSigmaSq)
			weights[(ky+radius)*size+(kx+radius)] = w
			sum += w
		}
	}
	for i := range weights {
		weights[i] /= sum
	}
	return Kernel{Size: size, Weights: weights, Smoothing: true}
}

// Gaussian1D is the separable factor of Gaussian(radius). Its outer
// product with itself equals the 2D kernel.
func Gaussian1D(radius int) []float32 {
	if radius < 0 {
		radius = 0
	}
	size := 2*radius + 1
	weights := make([]float32, size)
	if radius == 0 {
		weights[0] = 1
		return weights
	}

	sigma := float32(radius) / 3
	twoSigmaSq := 2 * sigma * sigma
	var sum float32
	for k := -radius; k <= radius; k++ {
		w := math32.Exp(-float32(k*k) / twoSigmaSq)
		weights[k+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Sum returns the total of all weights
func (k Kernel) Sum() float32 {
	var sum float32
	for _, w := range k.Weights {
		sum += w
	}
	return sum
}
