package gainmath

import "testing"

func BenchmarkLinearToDecibelFixed(b *testing.B) {
	var sink int16

	v := uint32(1)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		sink = LinearToDecibelFixed(v)
		v = v*2654435761 + 1
	}

	_ = sink
}

func BenchmarkVolumeToDecibel(b *testing.B) {
	var sink int16

	v := uint32(1)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		sink = VolumeToDecibel(v & 0xffffff)
		v = v*2654435761 + 1
	}

	_ = sink
}
