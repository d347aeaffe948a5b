package update

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.0.0", "1.0.0", 0},
		{"1.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.2.0", "1.10.0", -1},
		{"2.0.0", "1.99.99", 1},
		{"1.0.0-rc1", "1.0.0", -1},
		{"1.0.0-beta2", "1.0.0-rc1", -1},
		{"1.0.0-alpha", "1.0.0-beta", -1},
		{"1.0.0-rc.2", "1.0.0-rc.10", -1},
		{"1.0.0rc1", "1.0.0-rc1", 0},
		{"1.0.0+build5", "1.0.0", 0},
		{"V2.1", "v2.0.9", 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_vs_%s", tt.v1, tt.v2), func(t *testing.T) {
			if got := CompareVersions(tt.v1, tt.v2); got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
			}
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := map[string]string{
		"v1.2.3":   "1.2.3",
		" 1.2.3 ":  "1.2.3",
		"V0.9":     "0.9",
		"version1": "version1",
		"v":        "v",
	}
	for in, want := range tests {
		if got := NormalizeVersion(in); got != want {
			t.Errorf("NormalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"v1.4.0-rc1", Version{Parts: []int{1, 4, 0}, Stage: StageRC, StageNum: 1}},
		{"2.0", Version{Parts: []int{2, 0}, Stage: StageRelease}},
		{"1.0.0-beta.2+git5", Version{Parts: []int{1, 0, 0}, Stage: StageBeta, StageNum: 2}},
		{"3.1-1", Version{Parts: []int{3, 1}, Stage: StageRelease}},
		{"1.x", Version{Parts: []int{1, 0}, Stage: StageRelease}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseVersion(tt.in)
			if fmt.Sprint(got.Parts) != fmt.Sprint(tt.want.Parts) || got.Stage != tt.want.Stage || got.StageNum != tt.want.StageNum {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func genVersion() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
		gen.OneConstOf("", "-alpha", "-beta1", "-rc1", "-rc2"),
	).Map(func(values []interface{}) string {
		return fmt.Sprintf("%d.%d.%d%s", values[0], values[1], values[2], values[3])
	})
}

func TestCompareVersionsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("comparison is antisymmetric", prop.ForAll(
		func(a, b string) bool {
			return CompareVersions(a, b) == -CompareVersions(b, a)
		},
		genVersion(),
		genVersion(),
	))

	properties.Property("a version equals itself with a v prefix", prop.ForAll(
		func(a string) bool {
			return CompareVersions(a, "v"+a) == 0
		},
		genVersion(),
	))

	properties.Property("a pre-release is older than its release", prop.ForAll(
		func(major, minor, patch int) bool {
			release := fmt.Sprintf("%d.%d.%d", major, minor, patch)
			return CompareVersions(release+"-rc1", release) < 0
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}
