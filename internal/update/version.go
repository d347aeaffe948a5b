package update

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Stage orders the pre-release kinds; a final release sorts last
type Stage int

const (
	StageAlpha Stage = iota - 4
	StageBeta
	StagePre
	StageRC
	StageRelease
)

var stageNames = map[string]Stage{
	"alpha": StageAlpha,
	"beta":  StageBeta,
	"pre":   StagePre,
	"rc":    StageRC,
}

// stagePattern matches trailing stages like -rc1, -beta.2, _alpha, rc3
var stagePattern = regexp.MustCompile(`[-_.]?(alpha|beta|pre|rc)\.?(\d*)$`)

// Version is a parsed release version
type Version struct {
	Parts    []int
	Stage    Stage
	StageNum int
}

// NormalizeVersion strips surrounding space and a leading "v"
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > 1 && (v[0] == 'v' || v[0] == 'V') && isDigit(v[1]) {
		v = v[1:]
	}
	return v
}

// ParseVersion never fails: unreadable components count as 0 and build
// metadata after "+" is ignored.
func ParseVersion(s string) Version {
	s = strings.ToLower(NormalizeVersion(s))
	s, _, _ = strings.Cut(s, "+")

	v := Version{Stage: StageRelease}
	if m := stagePattern.FindStringSubmatch(s); m != nil {
		v.Stage = stageNames[m[1]]
		v.StageNum, _ = strconv.Atoi(m[2])
		s = strings.TrimSuffix(s, m[0])
	}

	v.Parts = lo.Map(strings.Split(s, "."), func(p string, _ int) int {
		n, _ := strconv.Atoi(leadingDigits(p))
		return n
	})
	return v
}

// Compare returns -1, 0 or 1. Missing trailing parts count as 0, so 1.0 equals 1.0.0.
func (v Version) Compare(o Version) int {
	for i := range max(len(v.Parts), len(o.Parts)) {
		if c := cmp.Compare(partAt(v.Parts, i), partAt(o.Parts, i)); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(v.Stage, o.Stage); c != 0 {
		return c
	}
	return cmp.Compare(v.StageNum, o.StageNum)
}

// CompareVersions compares two release versions such as "v1.2.0" and "1.2.0-rc1"
func CompareVersions(a, b string) int {
	return ParseVersion(a).Compare(ParseVersion(b))
}

func partAt(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

func leadingDigits(s string) string {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return s[:i]
		}
	}
	return s
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
