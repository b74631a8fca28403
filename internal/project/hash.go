package project

import (
	"crypto/sha256"
	"fmt"
)

// Digest - sha256, тот же размер что у source.File.Hash
type Digest [sha256.Size]byte

// Combine хеширует текст скрипта вместе с хешами деклараций, в порядке
// их загрузки. Индекс устаревает при изменении любого из входов.
func Combine(content Digest, decls ...Digest) Digest {
	buf := make([]byte, 0, sha256.Size*(len(decls)+1))
	buf = append(buf, content[:]...)
	for _, d := range decls {
		buf = append(buf, d[:]...)
	}
	return sha256.Sum256(buf)
}

func (d Digest) String() string { return fmt.Sprintf("%x", d[:]) }
