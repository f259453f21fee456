//go:build linux

package reader

import "syscall"

// mmapFile maps fd read-only as a private region.
func mmapFile(fd int, length int) ([]byte, error) {
	return syscall.Mmap(fd, 0, length, syscall.PROT_READ, syscall.MAP_PRIVATE)
}

func munmapFile(b []byte) error {
	return syscall.Munmap(b)
}

// adviseSequential hints the kernel that the region will be scanned
// front to back. Best effort.
func adviseSequential(b []byte) {
	_ = syscall.Madvise(b, syscall.MADV_SEQUENTIAL)
}
