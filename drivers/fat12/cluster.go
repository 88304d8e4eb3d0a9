package fat12

// ClusterFree marks an unused cluster. Real FAT12 media never stores this
// value in a chain a directory entry points to; it only appears here for
// completeness.
const ClusterFree = 0x000

// EndOfChainThreshold is the first cluster value FAT12 reserves to mean
// "this chain ends here". original_source/fat12.c tests currentCluster
// against the literal 0xFF8 in its read and lookup loops; IsEndOfChain
// does the same comparison in one place.
const EndOfChainThreshold = 0xFF8

// NextCluster reads the FAT12 entry for currentCluster out of the packed
// 12-bit FAT table and returns the cluster it points to. It is the direct
// translation of get_next_cluster in original_source/fat12.c: two FAT12
// entries are packed into three bytes, so the odd/even cluster number
// decides whether the relevant 12 bits sit in the low or high nibble of
// that 24-bit group.
func NextCluster(currentCluster uint32, fat []byte) uint32 {
	fatIndex := currentCluster * 3 / 2

	packed := uint16(fat[fatIndex]) | uint16(fat[fatIndex+1])<<8

	if currentCluster%2 == 0 {
		return uint32(packed & 0x0FFF)
	}
	return uint32(packed >> 4)
}

// IsEndOfChain reports whether cluster marks the end of a cluster chain.
func IsEndOfChain(cluster uint32) bool {
	return cluster >= EndOfChainThreshold
}
