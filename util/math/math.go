package math

// IsPowerOfTwo reports whether given integer is a power of two.
func IsPowerOfTwo(n uint64) bool {
	return n&(n-1) == 0
}

// AlignUp rounds n up to the next multiple of align, which MUST be a power of two.
func AlignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}
