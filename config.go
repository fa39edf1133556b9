/*
 * config.go, part of res2desc.
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

package res2desc

import (
	"fmt"
	"strings"
)

// DescriptorConfig holds the settings of the descriptor. It is built once per
// run and shared, read only, by all the workers. Values are copied around, so
// the Species slice must not be modified after the config is handed out.
type DescriptorConfig struct {
	Cutoff    float64  //radius of the atomic environment, in Angstrom
	LMax      int      //angular order
	NMax      int      //radial order
	Sigma     float64  //Gaussian smoothing width, in Angstrom
	Species   []string //all the species the descriptor will see
	Average   bool     //average over atoms instead of summing
	Periodic  bool     //use periodic images when the structure has a lattice
	Crossover bool     //include terms between different species
}

// Validate checks that the config can define a descriptor of fixed dimension.
func (C DescriptorConfig) Validate() error {
	switch {
	case C.Cutoff <= 0:
		return Errorf(ErrConfig, "DescriptorConfig.Validate", "cutoff must be positive, got %g", C.Cutoff)
	case C.NMax < 1:
		return Errorf(ErrConfig, "DescriptorConfig.Validate", "radial order must be at least 1, got %d", C.NMax)
	case C.LMax < 0:
		return Errorf(ErrConfig, "DescriptorConfig.Validate", "angular order must not be negative, got %d", C.LMax)
	case C.Sigma <= 0:
		return Errorf(ErrConfig, "DescriptorConfig.Validate", "smoothing width must be positive, got %g", C.Sigma)
	case len(C.Species) == 0:
		return NewError(ErrConfig, "empty species list", "DescriptorConfig.Validate")
	}
	seen := make(map[string]bool, len(C.Species))
	for _, v := range C.Species {
		if v == "" || seen[v] {
			return Errorf(ErrConfig, "DescriptorConfig.Validate", "invalid or repeated species %q", v)
		}
		seen[v] = true
	}
	return nil
}

func (C DescriptorConfig) String() string {
	return fmt.Sprintf("cutoff=%g l_max=%d n_max=%d sigma=%g species=%s average=%t periodic=%t crossover=%t",
		C.Cutoff, C.LMax, C.NMax, C.Sigma, strings.Join(C.Species, ","), C.Average, C.Periodic, C.Crossover)
}
