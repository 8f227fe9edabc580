package quality

// Grade is a letter grade assigned to a per-byte min-entropy value.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// gradeRank orders grades for the monotonicity property law: A > B > C > D > F.
var gradeRank = map[Grade]int{
	GradeA: 5,
	GradeB: 4,
	GradeC: 3,
	GradeD: 2,
	GradeF: 1,
}

// Rank returns g's position in the A>B>C>D>F ordering, for comparisons.
func (g Grade) Rank() int {
	return gradeRank[g]
}

// GradeMinEntropy maps a per-byte min-entropy value to a letter grade.
// Thresholds are fixed per spec §4.3 and §9 ("do not make them runtime
// configurable in the core"): A >= 6.5, B >= 5.0, C >= 3.5, D >= 2.0,
// otherwise F.
func GradeMinEntropy(minEntropy float64) Grade {
	switch {
	case minEntropy >= 6.5:
		return GradeA
	case minEntropy >= 5.0:
		return GradeB
	case minEntropy >= 3.5:
		return GradeC
	case minEntropy >= 2.0:
		return GradeD
	default:
		return GradeF
	}
}
