package report

import "strings"

// rankScores maps both rating schemes onto one numeric scale so records
// can be ordered across schemes: A*/1 -> 200, A/2 -> 150, B/3 -> 100,
// C -> 30, anything else -> 0.
var rankScores = map[string]int{
	"A*": 200,
	"1":  200,
	"A":  150,
	"2":  150,
	"B":  100,
	"3":  100,
	"C":  30,
}

// Score converts a rank-tier label to its numeric score.
func Score(label string) int {
	return rankScores[strings.ToUpper(strings.TrimSpace(label))]
}

// MaxRank returns the better of the two scheme scores for a record.
func MaxRank(coreRank, ggsClass string) int {
	core := Score(coreRank)
	ggs := Score(ggsClass)
	if core > ggs {
		return core
	}
	return ggs
}
