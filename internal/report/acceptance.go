package report

import "strings"

// acceptanceRates is a static lookup of published acceptance rates for
// well-known venues, keyed by normalized acronym. Values are fractions of
// submitted papers accepted; venues without published numbers are absent.
var acceptanceRates = map[string]float64{
	"AAAI":        0.20,
	"ACL":         0.22,
	"AISTATS":     0.30,
	"CIKM":        0.20,
	"COLING":      0.30,
	"CVPR":        0.25,
	"EACL":        0.24,
	"ECAI":        0.27,
	"ECCV":        0.27,
	"ECIR":        0.25,
	"EMNLP":       0.24,
	"ICASSP":      0.48,
	"ICCV":        0.26,
	"ICDM":        0.20,
	"ICLR":        0.30,
	"ICML":        0.22,
	"IJCAI":       0.20,
	"IJCNN":       0.60,
	"INTERSPEECH": 0.50,
	"KDD":         0.18,
	"NAACL":       0.24,
	"NEURIPS":     0.21,
	"SIGIR":       0.21,
	"UAI":         0.31,
	"WSDM":        0.16,
	"WWW":         0.17,
}

// AcceptanceRate returns the published acceptance rate for an acronym, or
// nil when none is known.
func AcceptanceRate(acronym string) *float64 {
	if rate, ok := acceptanceRates[strings.ToUpper(strings.TrimSpace(acronym))]; ok {
		return &rate
	}
	return nil
}
