package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateRandomAvatar generates a random avatar URL for contacts created
// without a photo, using the DiceBear API.
func GenerateRandomAvatar() string {
	seed, _ := rand.Int(rand.Reader, big.NewInt(1000000))

	styles := []string{"avataaars", "personas", "micah", "miniavs", "initials"}
	styleIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(styles))))
	style := styles[styleIndex.Int64()]

	return fmt.Sprintf("https://api.dicebear.com/7.x/%s/svg?seed=%d", style, seed.Int64())
}
