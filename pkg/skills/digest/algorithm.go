package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/sha3"
)

type algorithm struct {
	name     string
	keywords []string
	init     func() hash.Hash
}

func mustHash(h hash.Hash, err error) hash.Hash {
	if err != nil {
		panic(err)
	}
	return h
}

var algorithms = []algorithm{
	{name: "MD4", keywords: []string{"md4"}, init: md4.New},
	{name: "MD5", keywords: []string{"md5"}, init: md5.New},
	{name: "SHA-1", keywords: []string{"sha1", "sha-1"}, init: sha1.New},
	{name: "SHA-224", keywords: []string{"sha-224", "sha224", "sha2", "sha-2"}, init: sha256.New224},
	{name: "SHA-256", keywords: []string{"sha-256", "sha256", "sha2", "sha-2"}, init: sha256.New},
	{name: "SHA-384", keywords: []string{"sha-384", "sha384", "sha2", "sha-2"}, init: sha512.New384},
	{name: "SHA-512", keywords: []string{"sha-512", "sha512", "sha2", "sha-2"}, init: sha512.New},
	{name: "SHA-512/224", keywords: []string{"sha-512/224", "sha512-224", "sha2", "sha-2"}, init: sha512.New512_224},
	{name: "SHA-512/256", keywords: []string{"sha-512/256", "sha512-256", "sha2", "sha-2"}, init: sha512.New512_256},
	{name: "SHA-3-224", keywords: []string{"sha3-224", "sha3", "sha-3"}, init: sha3.New224},
	{name: "SHA-3-256", keywords: []string{"sha3-256", "sha3", "sha-3"}, init: sha3.New256},
	{name: "SHA-3-384", keywords: []string{"sha3-384", "sha3", "sha-3"}, init: sha3.New384},
	{name: "SHA-3-512", keywords: []string{"sha3-512", "sha3", "sha-3"}, init: sha3.New512},
	{
		name: "CRC-32/ISO-HDLC",
		keywords: []string{
			"crc32", "crc-32", "crc32-iso", "crc-32-iso", "crc-32-iso-hdlc",
			"crc-32/iso-hdlc", "crc32/iso-hdlc", "crc32/iso",
		},
		init: func() hash.Hash { return crc32.NewIEEE() },
	},
	{
		name:     "BLAKE2-S-256",
		keywords: []string{"blake2s256", "blake2"},
		init:     func() hash.Hash { return mustHash(blake2s.New256(nil)) },
	},
	{
		name:     "BLAKE2-B-512",
		keywords: []string{"blake2b512", "blake2"},
		init:     func() hash.Hash { return mustHash(blake2b.New512(nil)) },
	},
	{name: "XXH64", keywords: []string{"xxh64", "xxhash", "xxhash64"}, init: func() hash.Hash { return xxhash.New() }},
}

func allKeywords() []string {
	var out []string
	for _, a := range algorithms {
		out = append(out, a.keywords...)
	}
	return out
}
