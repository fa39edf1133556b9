/*
 * fingerprint.go, part of res2desc.
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

/*Package fingerprint implements the default descriptor: a smooth, fixed-length
fingerprint of the atomic environments in a structure.

For every atom, the neighbours within the cutoff radius contribute two kinds of terms:

Radial terms, one block of NMax values per pair of species. The distance to each
neighbour is smeared with a Gaussian of width Sigma and projected onto NMax Gaussian
basis functions spread evenly between 0 and the cutoff.

Angular terms, one block of LMax+1 values per centre species. Every pair of neighbours
adds the Legendre polynomials P_0..P_LMax of the cosine of the angle they form with
the centre.

All the terms are damped by a cosine cutoff function, so the fingerprint changes smoothly
as atoms cross the cutoff sphere. The per-atom terms are summed, or averaged if
DescriptorConfig.Average is set. The dimension depends only on the configuration.
*/
package fingerprint

import (
	"fmt"
	"math"

	"github.com/res2desc/res2desc"
	"github.com/res2desc/res2desc/cell"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

const appzero = 1e-8 //closer than this, two atoms are the same atom

// Fingerprint computes descriptor vectors. A Fingerprint is not meant to be
// shared between goroutines; each worker should build its own.
type Fingerprint struct {
	cfg     res2desc.DescriptorConfig
	species map[string]int
	pairs   [][]int //pairs[a][b] is the radial block for species a and b, -1 if not computed
	npairs  int
	centres []float64
	width2  float64 //2*(sigma^2+basis width^2)
	dim     int
	leg     []float64
}

// New returns a Fingerprint for the given configuration.
func New(cfg res2desc.DescriptorConfig) (*Fingerprint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, res2desc.Decorate(err, res2desc.ErrConfig, "fingerprint.New")
	}
	cfg.Species = append([]string(nil), cfg.Species...)
	F := &Fingerprint{cfg: cfg, species: make(map[string]int, len(cfg.Species))}
	for i, v := range cfg.Species {
		F.species[v] = i
	}
	ns := len(cfg.Species)
	F.pairs = make([][]int, ns)
	for a := range F.pairs {
		F.pairs[a] = make([]int, ns)
		for b := range F.pairs[a] {
			F.pairs[a][b] = -1
		}
	}
	for a := 0; a < ns; a++ {
		for b := a; b < ns; b++ {
			if a != b && !cfg.Crossover {
				continue
			}
			F.pairs[a][b] = F.npairs
			F.pairs[b][a] = F.npairs
			F.npairs++
		}
	}
	w := cfg.Cutoff / float64(cfg.NMax)
	F.centres = make([]float64, cfg.NMax)
	for k := range F.centres {
		F.centres[k] = w * (float64(k) + 0.5)
	}
	F.width2 = 2 * (cfg.Sigma*cfg.Sigma + w*w)
	F.dim = F.npairs*cfg.NMax + ns*(cfg.LMax+1)
	F.leg = make([]float64, cfg.LMax+1)
	return F, nil
}

// Dim returns the length of the vectors produced by Create.
func (F *Fingerprint) Dim() int {
	return F.dim
}

// Config returns the configuration F was built with.
func (F *Fingerprint) Config() res2desc.DescriptorConfig {
	return F.cfg
}

type neighbour struct {
	species int
	d       r3.Vec //from the centre to the neighbour
	r       float64
	fc      float64
}

// Create returns the fingerprint of S. S is not modified.
func (F *Fingerprint) Create(S *res2desc.Structure) ([]float64, error) {
	if S.Len() == 0 {
		return nil, res2desc.Errorf(res2desc.ErrCompute, "Fingerprint.Create", "structure %d has no atoms", S.Index)
	}
	if len(S.Coords) != S.Len() {
		return nil, res2desc.Errorf(res2desc.ErrCompute, "Fingerprint.Create", "structure %d has %d coordinates for %d atoms", S.Index, len(S.Coords), S.Len())
	}
	kinds := make([]int, S.Len())
	for i, v := range S.Species {
		k, ok := F.species[v]
		if !ok {
			return nil, res2desc.Errorf(res2desc.ErrCompute, "Fingerprint.Create", "species %s of structure %d not in %v", v, S.Index, F.cfg.Species)
		}
		kinds[i] = k
	}
	if F.cfg.Periodic && S.Periodic() {
		//the image search only reaches neighbours of atoms inside the cell
		W := *S
		W.Coords = make([]r3.Vec, len(S.Coords))
		for i, v := range S.Coords {
			W.Coords[i] = cell.Wrap(v)
		}
		S = &W
	}
	coords, C, err := cell.Cartesian(S)
	if err != nil {
		return nil, res2desc.WrapError(res2desc.ErrCompute, err, fmt.Sprintf("structure %d", S.Index), "Fingerprint.Create")
	}
	var shifts []r3.Vec
	if F.cfg.Periodic && C != nil {
		shifts = imageShifts(C, F.cfg.Cutoff)
	} else {
		shifts = []r3.Vec{{}}
	}
	out := make([]float64, F.dim)
	neighs := make([]neighbour, 0, 64)
	for i := range coords {
		neighs = F.neighbours(neighs[:0], coords, kinds, shifts, i)
		F.addRadial(out, kinds[i], neighs)
		F.addAngular(out, kinds[i], neighs)
	}
	if F.cfg.Average {
		floats.Scale(1/float64(len(coords)), out)
	}
	return out, nil
}

func imageShifts(C *cell.Cell, cutoff float64) []r3.Vec {
	n := C.Images(cutoff)
	shifts := make([]r3.Vec, 0, (2*n[0]+1)*(2*n[1]+1)*(2*n[2]+1))
	for i := -n[0]; i <= n[0]; i++ {
		for j := -n[1]; j <= n[1]; j++ {
			for k := -n[2]; k <= n[2]; k++ {
				s := r3.Scale(float64(i), C.Vec(0))
				s = r3.Add(s, r3.Scale(float64(j), C.Vec(1)))
				s = r3.Add(s, r3.Scale(float64(k), C.Vec(2)))
				shifts = append(shifts, s)
			}
		}
	}
	return shifts
}

//neighbours appends to dst every atom, periodic images included, within the cutoff of atom i.
func (F *Fingerprint) neighbours(dst []neighbour, coords []r3.Vec, kinds []int, shifts []r3.Vec, i int) []neighbour {
	rc := F.cfg.Cutoff
	for _, s := range shifts {
		for j, v := range coords {
			d := r3.Sub(r3.Add(v, s), coords[i])
			r := r3.Norm(d)
			if r < appzero || r >= rc {
				continue
			}
			if !F.cfg.Crossover && kinds[j] != kinds[i] {
				continue
			}
			dst = append(dst, neighbour{species: kinds[j], d: d, r: r, fc: 0.5 * (math.Cos(math.Pi*r/rc) + 1)})
		}
	}
	return dst
}

func (F *Fingerprint) addRadial(out []float64, centre int, neighs []neighbour) {
	nmax := F.cfg.NMax
	for _, n := range neighs {
		p := F.pairs[centre][n.species]
		if p < 0 {
			continue
		}
		block := out[p*nmax : (p+1)*nmax]
		for k, c := range F.centres {
			dr := n.r - c
			block[k] += n.fc * math.Exp(-dr*dr/F.width2)
		}
	}
}

func (F *Fingerprint) addAngular(out []float64, centre int, neighs []neighbour) {
	nl := F.cfg.LMax + 1
	start := F.npairs*F.cfg.NMax + centre*nl
	block := out[start : start+nl]
	for j := 0; j < len(neighs); j++ {
		for k := j + 1; k < len(neighs); k++ {
			a, b := neighs[j], neighs[k]
			cos := r3.Dot(a.d, b.d) / (a.r * b.r)
			legendre(F.leg, cos)
			w := a.fc * b.fc
			for l, v := range F.leg {
				block[l] += w * v
			}
		}
	}
}

//legendre fills dst with P_0(x)...P_len(dst)-1(x).
func legendre(dst []float64, x float64) {
	x = math.Max(-1, math.Min(1, x))
	for l := range dst {
		switch l {
		case 0:
			dst[0] = 1
		case 1:
			dst[1] = x
		default:
			fl := float64(l)
			dst[l] = ((2*fl-1)*x*dst[l-1] - (fl-1)*dst[l-2]) / fl
		}
	}
}
