package descipher

// This file holds the fixed, keyless cipher tables: a 64-entry initial
// permutation, a 64-entry final permutation, a 32-entry P-box and four
// 64-entry S-boxes. They are compile-time constants with no key schedule,
// consistent with the documented "single round, four S-box" DES variant.
//
// bitMask[i] is the MSB-first mask for bit position i within a byte.
var bitMask = [8]byte{0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01}

// initialPermutation maps output bit position i to the source bit position
// in the ciphertext block (MSB-first within each byte).
var initialPermutation = [64]uint8{
	1, 4, 5, 7, 3, 37, 11, 29,
	38, 25, 51, 17, 48, 50, 36, 47,
	15, 46, 53, 24, 28, 43, 62, 31,
	18, 20, 39, 35, 56, 33, 0, 55,
	13, 60, 52, 45, 19, 22, 54, 41,
	23, 10, 32, 26, 16, 49, 21, 63,
	58, 14, 8, 6, 40, 30, 44, 57,
	27, 59, 42, 61, 12, 2, 9, 34,
}

// finalPermutation maps output bit position i to the source bit position
// after the Feistel combine step.
var finalPermutation = [64]uint8{
	1, 3, 9, 50, 13, 52, 17, 11,
	42, 25, 6, 55, 21, 61, 0, 19,
	56, 54, 38, 27, 34, 14, 7, 26,
	49, 16, 45, 31, 46, 30, 41, 53,
	23, 43, 39, 28, 5, 10, 15, 36,
	62, 51, 60, 48, 33, 57, 24, 59,
	40, 32, 35, 8, 18, 63, 29, 4,
	47, 58, 20, 44, 22, 2, 37, 12,
}

// pBox permutes the 32-bit S-box output before it is folded back into L.
var pBox = [32]uint8{
	1, 6, 5, 22, 7, 21, 28, 30,
	17, 29, 13, 20, 15, 0, 16, 19,
	24, 12, 10, 18, 23, 25, 9, 27,
	31, 8, 3, 2, 14, 4, 11, 26,
}

// sBoxes holds the four 64-entry S-boxes (instead of DES's usual eight).
// sBoxes[i][e] yields a byte whose high nibble is combined with the low
// nibble of sBoxes[i][e'] to produce one output byte of the round function.
var sBoxes = [4][64]byte{
	{
		199, 6, 39, 224, 121, 86, 195, 88,
		201, 32, 182, 50, 90, 25, 63, 136,
		58, 11, 146, 203, 133, 207, 176, 143,
		15, 188, 246, 188, 2, 206, 134, 166,
		234, 26, 22, 40, 131, 88, 194, 182,
		203, 206, 64, 192, 151, 202, 235, 103,
		3, 248, 75, 157, 221, 48, 57, 178,
		169, 17, 116, 199, 39, 27, 72, 21,
	},
	{
		2, 36, 64, 36, 121, 176, 206, 132,
		138, 172, 29, 250, 249, 84, 213, 26,
		81, 233, 22, 137, 154, 197, 240, 225,
		225, 226, 17, 254, 230, 157, 102, 183,
		203, 47, 67, 204, 112, 124, 246, 153,
		92, 66, 113, 87, 53, 184, 76, 29,
		207, 220, 142, 192, 42, 79, 214, 133,
		145, 125, 112, 218, 186, 254, 116, 66,
	},
	{
		61, 66, 89, 104, 121, 10, 216, 176,
		75, 56, 133, 195, 152, 143, 107, 171,
		104, 199, 154, 71, 175, 187, 48, 52,
		179, 7, 45, 64, 201, 108, 70, 201,
		171, 68, 112, 111, 93, 160, 43, 124,
		237, 181, 161, 238, 210, 166, 174, 211,
		154, 192, 209, 227, 118, 110, 114, 89,
		122, 232, 107, 237, 77, 225, 159, 110,
	},
	{
		242, 218, 194, 248, 226, 92, 74, 130,
		86, 189, 32, 209, 116, 70, 183, 102,
		234, 21, 143, 85, 217, 0, 144, 156,
		20, 209, 172, 149, 115, 167, 73, 119,
		249, 117, 195, 187, 149, 141, 54, 129,
		47, 171, 97, 200, 87, 149, 188, 146,
		25, 101, 134, 71, 6, 247, 120, 67,
		46, 234, 163, 43, 132, 191, 128, 89,
	},
}

// swapTable implements the shuffle-decode substitution: the identity on
// every byte value except seven bidirectional swaps.
var swapTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	pairs := [7][2]byte{
		{0x00, 0x2B},
		{0x6C, 0x80},
		{0x01, 0x68},
		{0x48, 0x77},
		{0x60, 0xFF},
		{0xB9, 0xC0},
		{0xFE, 0xEB},
	}
	for _, p := range pairs {
		t[p[0]], t[p[1]] = p[1], p[0]
	}
	return t
}()
