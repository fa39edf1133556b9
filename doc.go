/*
 * doc.go, part of res2desc.
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

/*
Package res2desc turns crystal-structure search results (SHELX/RES blocks,
concatenated into one stream) into fixed-length fingerprint vectors, and writes
them out in the text conventions understood by the cryan ranking tool.

The root package holds the data model shared by the sub-packages:

	Structure  the geometry of one block (species, coordinates, lattice)
	Metadata   the TITL header of one block
	Record     a Metadata/Structure pair, in stream order
	Vector     a descriptor vector tagged with the index of its structure

The sub-packages do the work:

	res          parses RES streams
	cell         lattice parameters to cell matrices and periodic images
	cryan        drives the external cryan tool and extracts its metadata lines
	fingerprint  the descriptor used by default
	pipeline     computes descriptors in parallel, preserving input order
	format       writes the two-line, three-line and table output styles
	descplot     plots descriptor vectors

Throughout, the i-th Structure, the i-th Metadata (or cryan line) and the i-th
Vector describe the same physical structure. Nothing in the library reorders one
of those sequences without the others.
*/
package res2desc
