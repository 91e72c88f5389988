package quantity

import "testing"

func BenchmarkParse_Simple(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Parse("30 seconds") //nolint:errcheck // benchmark
	}
}

func BenchmarkParse_Compound(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Parse("15 ml/min") //nolint:errcheck // benchmark
	}
}

func BenchmarkParse_Affine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Parse("25 degC") //nolint:errcheck // benchmark
	}
}
