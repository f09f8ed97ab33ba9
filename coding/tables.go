// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Alignment pattern centre columns by symbol width.
var (
	align43  = []int{21}
	align59  = []int{19, 39}
	align77  = []int{25, 51}
	align99  = []int{23, 49, 75}
	align139 = []int{27, 55, 83, 111}
)

// Version table, from ISO/IEC 23941 tables 3, 6, 7 and 8.
// Character count lengths are numeric, alphanumeric, byte, kanji.
var vtab = [MaxVersion + 1]version{
	R7x43:   {7, 43, 13, 0, [4]byte{4, 3, 3, 2}, [2]level{{1, 7}, {1, 10}}, align43},
	R7x59:   {7, 59, 21, 3, [4]byte{5, 5, 4, 3}, [2]level{{1, 9}, {1, 14}}, align59},
	R7x77:   {7, 77, 32, 5, [4]byte{6, 5, 5, 4}, [2]level{{1, 12}, {1, 22}}, align77},
	R7x99:   {7, 99, 44, 6, [4]byte{7, 6, 5, 5}, [2]level{{1, 16}, {1, 30}}, align99},
	R7x139:  {7, 139, 68, 1, [4]byte{7, 6, 6, 5}, [2]level{{2, 12}, {2, 22}}, align139},
	R9x43:   {9, 43, 21, 2, [4]byte{5, 5, 4, 3}, [2]level{{1, 9}, {1, 14}}, align43},
	R9x59:   {9, 59, 33, 3, [4]byte{6, 5, 5, 4}, [2]level{{1, 12}, {1, 22}}, align59},
	R9x77:   {9, 77, 49, 1, [4]byte{7, 6, 5, 5}, [2]level{{1, 18}, {2, 16}}, align77},
	R9x99:   {9, 99, 66, 4, [4]byte{7, 6, 6, 5}, [2]level{{1, 24}, {2, 22}}, align99},
	R9x139:  {9, 139, 99, 5, [4]byte{8, 7, 6, 6}, [2]level{{2, 18}, {3, 22}}, align139},
	R11x27:  {11, 27, 15, 2, [4]byte{4, 4, 3, 2}, [2]level{{1, 8}, {1, 10}}, nil},
	R11x43:  {11, 43, 31, 1, [4]byte{6, 5, 5, 4}, [2]level{{1, 12}, {1, 20}}, align43},
	R11x59:  {11, 59, 47, 0, [4]byte{7, 6, 5, 5}, [2]level{{1, 16}, {2, 16}}, align59},
	R11x77:  {11, 77, 67, 2, [4]byte{7, 6, 6, 5}, [2]level{{1, 24}, {2, 22}}, align77},
	R11x99:  {11, 99, 89, 7, [4]byte{8, 7, 6, 6}, [2]level{{2, 16}, {2, 30}}, align99},
	R11x139: {11, 139, 132, 6, [4]byte{8, 7, 7, 6}, [2]level{{2, 24}, {3, 30}}, align139},
	R13x27:  {13, 27, 21, 4, [4]byte{5, 5, 4, 3}, [2]level{{1, 9}, {1, 14}}, nil},
	R13x43:  {13, 43, 41, 1, [4]byte{6, 6, 5, 5}, [2]level{{1, 14}, {1, 28}}, align43},
	R13x59:  {13, 59, 60, 6, [4]byte{7, 6, 6, 5}, [2]level{{1, 22}, {2, 20}}, align59},
	R13x77:  {13, 77, 85, 4, [4]byte{7, 7, 6, 6}, [2]level{{2, 16}, {2, 28}}, align77},
	R13x99:  {13, 99, 113, 3, [4]byte{8, 7, 7, 6}, [2]level{{2, 20}, {3, 26}}, align99},
	R13x139: {13, 139, 166, 0, [4]byte{8, 8, 7, 7}, [2]level{{3, 20}, {4, 28}}, align139},
	R15x43:  {15, 43, 51, 1, [4]byte{7, 6, 6, 5}, [2]level{{1, 18}, {2, 18}}, align43},
	R15x59:  {15, 59, 74, 4, [4]byte{7, 7, 6, 5}, [2]level{{1, 26}, {2, 24}}, align59},
	R15x77:  {15, 77, 103, 6, [4]byte{8, 7, 7, 6}, [2]level{{2, 18}, {3, 24}}, align77},
	R15x99:  {15, 99, 136, 7, [4]byte{8, 7, 7, 6}, [2]level{{2, 24}, {4, 22}}, align99},
	R15x139: {15, 139, 199, 2, [4]byte{9, 8, 7, 7}, [2]level{{3, 24}, {5, 26}}, align139},
	R17x43:  {17, 43, 61, 1, [4]byte{7, 6, 6, 5}, [2]level{{1, 22}, {2, 20}}, align43},
	R17x59:  {17, 59, 88, 2, [4]byte{8, 7, 6, 6}, [2]level{{2, 16}, {2, 30}}, align59},
	R17x77:  {17, 77, 122, 0, [4]byte{8, 7, 7, 6}, [2]level{{2, 22}, {3, 28}}, align77},
	R17x99:  {17, 99, 160, 3, [4]byte{8, 8, 7, 6}, [2]level{{3, 20}, {4, 26}}, align99},
	R17x139: {17, 139, 232, 4, [4]byte{9, 8, 8, 7}, [2]level{{4, 20}, {6, 26}}, align139},
}
