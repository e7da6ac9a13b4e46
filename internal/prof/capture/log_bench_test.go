package capture

import "testing"

// BenchmarkAppend measures the steady-state append cost including
// amortized page rollover at the default capacity.
func BenchmarkAppend(b *testing.B) {
	l := NewLog(1, DefaultPageCapacity)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Append(Enter, "bench", 0x1, int64(i))
	}
}

// BenchmarkAppend_SmallPages exposes the rollover cost.
func BenchmarkAppend_SmallPages(b *testing.B) {
	l := NewLog(1, 64)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Append(Exit, "bench", 0x1, int64(i))
	}
}
