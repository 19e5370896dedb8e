package board

import "math/rand"

// ZobristHash is an incremental position hash. See:
// https://research.cs.wisc.edu/techreports/1970/TR88.pdf.
type ZobristHash uint64

// zobristTable holds the 781 random constants: 12x64 piece-square, 1 side-to-move,
// 4 castling, 8 en-passant-file.
type zobristTable struct {
	pieceSquare [NumPieces][NumSquares]ZobristHash
	castling    [4]ZobristHash // one per right: WK, WQ, BK, BQ
	enPassant   [8]ZobristHash // indexed by file
	sideToMove  ZobristHash
}

var zobrist zobristTable

// zobristSeed is fixed so hashes are reproducible across runs.
const zobristSeed = 0x5EED5EED

func init() {
	r := rand.New(rand.NewSource(zobristSeed))

	for p := Piece(0); p < NumPieces; p++ {
		for sq := Square(0); sq < NumSquares; sq++ {
			zobrist.pieceSquare[p][sq] = ZobristHash(r.Uint64())
		}
	}
	for i := range zobrist.castling {
		zobrist.castling[i] = ZobristHash(r.Uint64())
	}
	for f := 0; f < 8; f++ {
		zobrist.enPassant[f] = ZobristHash(r.Uint64())
	}
	zobrist.sideToMove = ZobristHash(r.Uint64())
}

func zobristPieceSquare(p Piece, sq Square) ZobristHash {
	return zobrist.pieceSquare[p][sq]
}

func zobristCastling(c Castling) ZobristHash {
	var h ZobristHash
	for i := range zobrist.castling {
		if c&(1<<uint(i)) != 0 {
			h ^= zobrist.castling[i]
		}
	}
	return h
}

func zobristEnPassantFile(f File) ZobristHash {
	return zobrist.enPassant[f]
}

func zobristSide() ZobristHash {
	return zobrist.sideToMove
}

// computeHash computes the zobrist hash for the position from scratch. Used
// by SetState to initialize the hash, and by tests to verify the
// incrementally maintained hash.
func (p *Position) computeHash() ZobristHash {
	var h ZobristHash
	for sq := Square(0); sq < NumSquares; sq++ {
		if pc := p.mailbox[sq]; pc != NoPiece {
			h ^= zobristPieceSquare(pc, sq)
		}
	}
	h ^= zobristCastling(p.castlingRights)
	if p.epSquare != NoSquare {
		h ^= zobristEnPassantFile(p.epSquare.File())
	}
	if p.sideToMove == Black {
		h ^= zobristSide()
	}
	return h
}
