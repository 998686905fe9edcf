package training

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// Simulate computes the far-field diffraction intensity |FFT2(probe·patch)|²
// at every scan position, with the zero frequency moved to the center.
func Simulate(points ScanPoints, probe *mat.CDense, object ObjectInterpolator) ([]mat.Matrix, error) {
	if probe == nil || object == nil {
		return nil, fmt.Errorf("simulate: probe and object are required")
	}
	rows, cols := probe.Dims()
	rowFFT := fourier.NewCmplxFFT(cols)
	colFFT := fourier.NewCmplxFFT(rows)

	wave := make([]complex128, rows*cols)
	rowBuf := make([]complex128, cols)
	colIn := make([]complex128, rows)
	colOut := make([]complex128, rows)

	frames := make([]mat.Matrix, points.Len())
	for n := range frames {
		p, err := points.At(n)
		if err != nil {
			return nil, err
		}
		patch, err := object.Patch(p, cols, rows)
		if err != nil {
			return nil, fmt.Errorf("simulate point %d: %w", n, err)
		}

		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				wave[i*cols+j] = probe.At(i, j) * patch.At(i, j)
			}
			row := wave[i*cols : (i+1)*cols]
			rowFFT.Coefficients(rowBuf, row)
			copy(row, rowBuf)
		}
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				colIn[i] = wave[i*cols+j]
			}
			colFFT.Coefficients(colOut, colIn)
			for i := 0; i < rows; i++ {
				wave[i*cols+j] = colOut[i]
			}
		}

		frame := mat.NewDense(rows, cols, nil)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				a := cmplx.Abs(wave[i*cols+j])
				frame.Set((i+rows/2)%rows, (j+cols/2)%cols, a*a)
			}
		}
		frames[n] = frame
	}
	return frames, nil
}

// GaussianProbe returns a size x size real Gaussian illumination with the
// given standard deviation in pixels, normalized to unit peak.
func GaussianProbe(size int, sigma float64) *mat.CDense {
	probe := mat.NewCDense(size, size, nil)
	c := float64(size-1) / 2
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			d2 := (float64(i)-c)*(float64(i)-c) + (float64(j)-c)*(float64(j)-c)
			probe.Set(i, j, complex(math.Exp(-d2/(2*sigma*sigma)), 0))
		}
	}
	return probe
}

// ScaleToPhotons scales frames in place so that their mean total intensity
// is nphotons. Frames must be *mat.Dense.
func ScaleToPhotons(frames []mat.Matrix, nphotons float64) error {
	if len(frames) == 0 {
		return nil
	}
	var total float64
	for _, f := range frames {
		total += mat.Sum(f)
	}
	mean := total / float64(len(frames))
	if mean <= 0 {
		return fmt.Errorf("cannot scale frames with mean intensity %g", mean)
	}
	for i, f := range frames {
		d, ok := f.(*mat.Dense)
		if !ok {
			return fmt.Errorf("frame %d is %T, want *mat.Dense", i, f)
		}
		d.Scale(nphotons/mean, d)
	}
	return nil
}
