/*
 * cell.go, part of res2desc.
 *
 * Copyright 2026 The res2desc Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package cell converts the 6 lattice parameters of a crystal (a, b, c, alpha, beta, gamma)
into cell vectors, and offers the few geometric operations the descriptors need on them.

The convention is the usual crystallographic one: the a vector lies along x, b lies
in the xy plane, and c completes a right-handed cell. Each row of the matrix
returned by Cell.Matrix is one cell vector, so that cartesian coordinates are
obtained as the row vector of fractional coordinates times the matrix.
*/
package cell

import (
	"math"

	"github.com/res2desc/res2desc"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const appzero = 1e-10 //anything below this is considered zero

// Cell is a periodic cell.
type Cell struct {
	m    *mat.Dense
	vecs [3]r3.Vec
}

// New builds a Cell from lengths a, b, c (Angstrom) and angles alpha, beta, gamma (degrees).
// It returns an error if the parameters do not define a cell of positive volume.
func New(params []float64) (*Cell, error) {
	if len(params) != 6 {
		return nil, res2desc.Errorf(res2desc.ErrConfig, "cell.New", "6 lattice parameters needed, got %d", len(params))
	}
	a, b, c := params[0], params[1], params[2]
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, res2desc.Errorf(res2desc.ErrConfig, "cell.New", "non-positive cell length in %v", params)
	}
	cosa, _ := cosSin(params[3])
	cosb, _ := cosSin(params[4])
	cosg, sing := cosSin(params[5])
	if sing < appzero {
		return nil, res2desc.Errorf(res2desc.ErrConfig, "cell.New", "degenerate gamma angle %g", params[5])
	}
	cy := (cosa - cosb*cosg) / sing
	cz2 := 1 - cosb*cosb - cy*cy
	if cz2 <= appzero {
		return nil, res2desc.Errorf(res2desc.ErrConfig, "cell.New", "angles %v do not define a cell", params[3:])
	}
	C := new(Cell)
	C.vecs[0] = r3.Vec{X: a}
	C.vecs[1] = r3.Vec{X: b * cosg, Y: b * sing}
	C.vecs[2] = r3.Vec{X: c * cosb, Y: c * cy, Z: c * math.Sqrt(cz2)}
	data := make([]float64, 0, 9)
	for _, v := range C.vecs {
		data = append(data, v.X, v.Y, v.Z)
	}
	C.m = mat.NewDense(3, 3, data)
	return C, nil
}

// Matrix returns the cell given by the lattice parameters. It is the
// geometry conversion used by the descriptors.
func Matrix(params []float64) (*mat.Dense, error) {
	C, err := New(params)
	if err != nil {
		return nil, err
	}
	return C.Matrix(), nil
}

//Exact values for the right angle, which is by far the most common one.
func cosSin(deg float64) (float64, float64) {
	if deg == 90 {
		return 0, 1
	}
	r := deg * math.Pi / 180
	return math.Cos(r), math.Sin(r)
}

// Matrix returns a copy of the 3x3 cell matrix, one cell vector per row.
func (C *Cell) Matrix() *mat.Dense {
	return mat.DenseCopyOf(C.m)
}

// Vec returns the i-th cell vector.
func (C *Cell) Vec(i int) r3.Vec {
	return C.vecs[i]
}

// Volume returns the volume of the cell.
func (C *Cell) Volume() float64 {
	return math.Abs(mat.Det(C.m))
}

// Cartesian returns the cartesian coordinates for the fractional coordinates frac.
func (C *Cell) Cartesian(frac r3.Vec) r3.Vec {
	r := r3.Scale(frac.X, C.vecs[0])
	r = r3.Add(r, r3.Scale(frac.Y, C.vecs[1]))
	return r3.Add(r, r3.Scale(frac.Z, C.vecs[2]))
}

// Fractional returns the fractional coordinates for the cartesian point p.
func (C *Cell) Fractional(p r3.Vec) (r3.Vec, error) {
	var inv mat.Dense
	if err := inv.Inverse(C.m); err != nil {
		return r3.Vec{}, res2desc.WrapError(res2desc.ErrConfig, err, "singular cell", "Cell.Fractional")
	}
	row := mat.NewVecDense(3, []float64{p.X, p.Y, p.Z})
	var f mat.VecDense
	f.MulVec(inv.T(), row)
	return r3.Vec{X: f.AtVec(0), Y: f.AtVec(1), Z: f.AtVec(2)}, nil
}

// Wrap returns frac moved into the cell, every component in [0,1).
func Wrap(frac r3.Vec) r3.Vec {
	return r3.Vec{X: wrap1(frac.X), Y: wrap1(frac.Y), Z: wrap1(frac.Z)}
}

func wrap1(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 { //-1e-17 - floor(-1e-17) rounds to 1
		x = 0
	}
	return x
}

// Images returns, for each cell vector, how many periodic images are needed
// on each side so that every point within cutoff of the cell is covered.
// Only points inside the cell (see Wrap) are covered.
func (C *Cell) Images(cutoff float64) [3]int {
	var ret [3]int
	vol := C.Volume()
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		//the distance between the two faces spanned by vectors j and k
		height := vol / r3.Norm(r3.Cross(C.vecs[j], C.vecs[k]))
		ret[i] = int(math.Ceil(cutoff / height))
	}
	return ret
}

// Cartesian returns the cartesian coordinates of the atoms of S. Coordinates
// of structures without lattice are taken to be cartesian already and returned
// as a copy, together with a nil Cell.
func Cartesian(S *res2desc.Structure) ([]r3.Vec, *Cell, error) {
	ret := make([]r3.Vec, len(S.Coords))
	if !S.Periodic() {
		copy(ret, S.Coords)
		return ret, nil, nil
	}
	C, err := New(S.Lattice)
	if err != nil {
		return nil, nil, res2desc.Decorate(err, res2desc.ErrConfig, "cell.Cartesian")
	}
	for i, v := range S.Coords {
		ret[i] = C.Cartesian(v)
	}
	return ret, C, nil
}
