package octfield

import "strings"

// Alphabet lists the octant symbols in vertex order: top/bottom, left/right, front/back.
var Alphabet = [8]string{"tlf", "trf", "tlb", "tbr", "blf", "brf", "blb", "brb"}

// symbolLen is the width of one octant symbol.
const symbolLen = 3

// PoolDepthLimit caps the code length used to pre-populate the unused pool.
const PoolDepthLimit = 4

// Depth returns the number of octant symbols in code.
func Depth(code string) int {
	return len(code) / symbolLen
}

// ValidCode reports whether code is empty or a concatenation of alphabet symbols.
func ValidCode(code string) bool {
	if len(code)%symbolLen != 0 {
		return false
	}
	for i := 0; i < len(code); i += symbolLen {
		if symbolIndex(code[i:i+symbolLen]) < 0 {
			return false
		}
	}
	return true
}

// Symbols splits code into its octant symbols.
func Symbols(code string) []string {
	out := make([]string, 0, Depth(code))
	for i := 0; i+symbolLen <= len(code); i += symbolLen {
		out = append(out, code[i:i+symbolLen])
	}
	return out
}

func symbolIndex(s string) int {
	for i, sym := range Alphabet {
		if sym == s {
			return i
		}
	}
	return -1
}

// allCodes enumerates every code of exactly depth symbols.
func allCodes(depth int) []string {
	if depth <= 0 {
		return nil
	}
	total := 1
	for i := 0; i < depth; i++ {
		total *= len(Alphabet)
	}

	out := make([]string, 0, total)
	data := make([]string, depth)
	var permute func(idx int)
	permute = func(idx int) {
		for _, sym := range Alphabet {
			data[idx] = sym
			if idx == depth-1 {
				out = append(out, strings.Join(data, ""))
			} else {
				permute(idx + 1)
			}
		}
	}
	permute(0)
	return out
}
