//go:build !amd64

package pmem

// Non-amd64 architectures have no streaming kernels or flush instructions
// wired up yet and always use the scalar strategy. Durability on these
// hosts relies on msync (see package mapfile).
func probeCPU() cpuFeatures {
	return cpuFeatures{}
}
