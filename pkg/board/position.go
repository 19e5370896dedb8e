package board

import "fmt"

// MaxPly bounds search depth plus game length within a single search; the
// undo history ring and killer tables are sized to it.
const MaxPly = 255

// undoRecord captures everything needed to reverse one make_move exactly.
type undoRecord struct {
	move           Move
	captured       Piece // NoPiece if the move was not a capture
	castlingRights Castling
	epSquare       Square
	halfmoveClock  int
	zobrist        ZobristHash // hash value before the move was made
}

// Position is a mutable bitboard chess position with O(1) make/unmake and an
// incrementally maintained Zobrist hash. Not safe for concurrent use.
type Position struct {
	pieceBB [NumPieces]Bitboard
	colorBB [NumColors]Bitboard
	occupied Bitboard
	mailbox [NumSquares]Piece

	sideToMove     Color
	castlingRights Castling
	epSquare       Square
	halfmoveClock  int
	fullmoveNumber int
	ply            int
	zobrist        ZobristHash

	history [MaxPly]undoRecord
}

// NewPosition returns an empty position (no pieces, White to move).
func NewPosition() *Position {
	p := &Position{epSquare: NoSquare}
	for sq := Square(0); sq < NumSquares; sq++ {
		p.mailbox[sq] = NoPiece
	}
	return p
}

// Clone returns an independent copy of p: every field is a fixed-size array
// or value type, so a struct copy is a full deep copy. Used to fork a
// position for a search goroutine while the original keeps serving engine
// queries.
func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

// Place sets pc on sq during position setup. It does not update the
// zobrist hash; call SetState afterwards to compute it from scratch.
func (p *Position) Place(pc Piece, sq Square) {
	p.rawPut(pc, sq)
}

// SetState finishes constructing a position after a sequence of Place calls:
// it records the side to move, castling rights, en-passant square and move
// clocks, then computes the zobrist hash from scratch.
func (p *Position) SetState(side Color, castling Castling, ep Square, halfmove, fullmove int) {
	p.sideToMove = side
	p.castlingRights = castling
	p.epSquare = ep
	p.halfmoveClock = halfmove
	p.fullmoveNumber = fullmove
	p.ply = 0
	p.zobrist = p.computeHash()
}

// Piece returns the piece occupying sq, or NoPiece if empty.
func (p *Position) Piece(sq Square) Piece {
	return p.mailbox[sq]
}

// PieceBB returns the bitboard of all pieces of the given (color, type) pair.
func (p *Position) PieceBB(pc Piece) Bitboard {
	return p.pieceBB[pc]
}

// PiecesOf returns the bitboard of all pieces of type pt belonging to c.
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	return p.pieceBB[MakePiece(c, pt)]
}

// ColorBB returns the union of all pieces of the given color.
func (p *Position) ColorBB(c Color) Bitboard {
	return p.colorBB[c]
}

// Occupied returns the union of all occupied squares.
func (p *Position) Occupied() Bitboard {
	return p.occupied
}

func (p *Position) SideToMove() Color {
	return p.sideToMove
}

func (p *Position) CastlingRights() Castling {
	return p.castlingRights
}

// EnPassant returns the en-passant target square and whether one is set.
func (p *Position) EnPassant() (Square, bool) {
	return p.epSquare, p.epSquare != NoSquare
}

func (p *Position) HalfmoveClock() int {
	return p.halfmoveClock
}

func (p *Position) FullmoveNumber() int {
	return p.fullmoveNumber
}

func (p *Position) Ply() int {
	return p.ply
}

func (p *Position) Zobrist() ZobristHash {
	return p.zobrist
}

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return p.pieceBB[MakePiece(c, King)].LSB()
}

// InCheck returns true iff c's king is currently attacked.
func (p *Position) InCheck(c Color) bool {
	return p.IsSquareAttacked(p.KingSquare(c), c.Opponent())
}

// IsSquareAttacked returns true iff sq is attacked by any piece of bySide.
func (p *Position) IsSquareAttacked(sq Square, bySide Color) bool {
	if PawnAttacks(bySide.Opponent(), sq)&p.pieceBB[MakePiece(bySide, Pawn)] != 0 {
		return true
	}
	if KnightAttacks(sq)&p.pieceBB[MakePiece(bySide, Knight)] != 0 {
		return true
	}
	if KingAttacks(sq)&p.pieceBB[MakePiece(bySide, King)] != 0 {
		return true
	}
	diagonal := p.pieceBB[MakePiece(bySide, Bishop)] | p.pieceBB[MakePiece(bySide, Queen)]
	if diagonal != 0 && BishopAttacks(sq, p.occupied)&diagonal != 0 {
		return true
	}
	orthogonal := p.pieceBB[MakePiece(bySide, Rook)] | p.pieceBB[MakePiece(bySide, Queen)]
	if orthogonal != 0 && RookAttacks(sq, p.occupied)&orthogonal != 0 {
		return true
	}
	return false
}

// Attackers returns the set of squares occupied by any piece (of either
// color) in occupied that attacks sq, with sliders blocked by occupied.
func (p *Position) Attackers(sq Square, occupied Bitboard) Bitboard {
	var attackers Bitboard
	attackers |= PawnAttacks(Black, sq) & p.pieceBB[WhitePawn] & occupied
	attackers |= PawnAttacks(White, sq) & p.pieceBB[BlackPawn] & occupied
	attackers |= KnightAttacks(sq) & (p.pieceBB[WhiteKnight] | p.pieceBB[BlackKnight]) & occupied
	attackers |= KingAttacks(sq) & (p.pieceBB[WhiteKing] | p.pieceBB[BlackKing]) & occupied
	bishops := (p.pieceBB[WhiteBishop] | p.pieceBB[BlackBishop] | p.pieceBB[WhiteQueen] | p.pieceBB[BlackQueen]) & occupied
	attackers |= BishopAttacks(sq, occupied) & bishops
	rooks := (p.pieceBB[WhiteRook] | p.pieceBB[BlackRook] | p.pieceBB[WhiteQueen] | p.pieceBB[BlackQueen]) & occupied
	attackers |= RookAttacks(sq, occupied) & rooks
	return attackers
}

// HasInsufficientMaterial returns true iff neither side has enough material
// to ever deliver checkmate (K vs K, K+N vs K, K+B vs K).
func (p *Position) HasInsufficientMaterial() bool {
	if p.pieceBB[WhitePawn]|p.pieceBB[BlackPawn]|p.pieceBB[WhiteRook]|p.pieceBB[BlackRook]|
		p.pieceBB[WhiteQueen]|p.pieceBB[BlackQueen] != 0 {
		return false
	}
	whiteMinors := p.pieceBB[WhiteKnight].PopCount() + p.pieceBB[WhiteBishop].PopCount()
	blackMinors := p.pieceBB[BlackKnight].PopCount() + p.pieceBB[BlackBishop].PopCount()
	return whiteMinors <= 1 && blackMinors <= 1 && whiteMinors+blackMinors <= 1
}

func (p *Position) putPiece(pc Piece, sq Square) {
	p.rawPut(pc, sq)
	p.zobrist ^= zobristPieceSquare(pc, sq)
}

func (p *Position) removePiece(pc Piece, sq Square) {
	p.rawRemove(pc, sq)
	p.zobrist ^= zobristPieceSquare(pc, sq)
}

func (p *Position) rawPut(pc Piece, sq Square) {
	bb := BitMask(sq)
	p.pieceBB[pc] |= bb
	p.colorBB[pc.Color()] |= bb
	p.occupied |= bb
	p.mailbox[sq] = pc
}

func (p *Position) rawRemove(pc Piece, sq Square) {
	bb := BitMask(sq)
	p.pieceBB[pc] &^= bb
	p.colorBB[pc.Color()] &^= bb
	p.occupied &^= bb
	p.mailbox[sq] = NoPiece
}

func (p *Position) movePieceHash(pc Piece, from, to Square) {
	p.removePiece(pc, from)
	p.putPiece(pc, to)
}

func (p *Position) movePieceRaw(pc Piece, from, to Square) {
	p.rawRemove(pc, from)
	p.rawPut(pc, to)
}

// enPassantBetween returns the square skipped over by a pawn double push.
func enPassantBetween(from, to Square) Square {
	r := (int(from.Rank()) + int(to.Rank())) / 2
	return squareOf(from.File(), Rank(r))
}

// enPassantCaptureSquare returns the square of the pawn captured by an
// en-passant move landing on `to`, played by `side`.
func enPassantCaptureSquare(to Square, side Color) Square {
	if side == White {
		return squareOf(to.File(), to.Rank()-1)
	}
	return squareOf(to.File(), to.Rank()+1)
}

// castlingRookMove returns the rook's from/to squares for a castling move by side.
func castlingRookMove(side Color, flag MoveFlag) (from, to Square) {
	switch {
	case side == White && flag == FlagKingCastle:
		return H1, F1
	case side == White && flag == FlagQueenCastle:
		return A1, D1
	case side == Black && flag == FlagKingCastle:
		return H8, F8
	default: // Black, queenside
		return A8, D8
	}
}

// MakeMove applies m to the position in place. The caller must only pass
// moves originating from the position's own generator; malformed moves are
// a programmer error and may corrupt the position.
func (p *Position) MakeMove(m Move) {
	from, to, flag := m.From(), m.To(), m.Flag()
	side := p.sideToMove
	pc := p.mailbox[from]

	rec := &p.history[p.ply]
	rec.move = m
	rec.captured = NoPiece
	rec.castlingRights = p.castlingRights
	rec.epSquare = p.epSquare
	rec.halfmoveClock = p.halfmoveClock
	rec.zobrist = p.zobrist

	newEp := NoSquare
	isPawnMove := pc.Type() == Pawn

	switch flag {
	case FlagQuiet:
		p.movePieceHash(pc, from, to)

	case FlagDoublePush:
		p.movePieceHash(pc, from, to)
		newEp = enPassantBetween(from, to)

	case FlagCapture:
		captured := p.mailbox[to]
		rec.captured = captured
		p.removePiece(captured, to)
		p.movePieceHash(pc, from, to)

	case FlagEnPassant:
		capSq := enPassantCaptureSquare(to, side)
		captured := p.mailbox[capSq]
		rec.captured = captured
		p.removePiece(captured, capSq)
		p.movePieceHash(pc, from, to)

	case FlagKingCastle, FlagQueenCastle:
		p.movePieceHash(pc, from, to)
		rf, rt := castlingRookMove(side, flag)
		p.movePieceHash(MakePiece(side, Rook), rf, rt)

	default: // promotion, with or without capture
		if flag.IsCapture() {
			captured := p.mailbox[to]
			rec.captured = captured
			p.removePiece(captured, to)
		}
		p.removePiece(pc, from)
		p.putPiece(MakePiece(side, flag.PromotionPiece()), to)
	}

	newCastling := p.castlingRights &^ castlingRightsLostBySquare[from] &^ castlingRightsLostBySquare[to]

	p.zobrist ^= zobristCastling(p.castlingRights)
	p.zobrist ^= zobristCastling(newCastling)
	if p.epSquare != NoSquare {
		p.zobrist ^= zobristEnPassantFile(p.epSquare.File())
	}
	if newEp != NoSquare {
		p.zobrist ^= zobristEnPassantFile(newEp.File())
	}
	p.zobrist ^= zobristSide()

	p.castlingRights = newCastling
	p.epSquare = newEp

	if flag.IsCapture() || isPawnMove {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}
	if side == Black {
		p.fullmoveNumber++
	}
	p.ply++
	p.sideToMove = side.Opponent()
}

// UnmakeMove reverses the most recent MakeMove, restoring the position to its
// exact pre-move state (board arrays, clocks, castling rights, ep square,
// and zobrist hash).
func (p *Position) UnmakeMove() {
	p.ply--
	rec := &p.history[p.ply]
	m := rec.move
	from, to, flag := m.From(), m.To(), m.Flag()

	p.sideToMove = p.sideToMove.Opponent()
	side := p.sideToMove
	if side == Black {
		p.fullmoveNumber--
	}

	switch flag {
	case FlagQuiet, FlagDoublePush:
		pc := p.mailbox[to]
		p.movePieceRaw(pc, to, from)

	case FlagCapture:
		pc := p.mailbox[to]
		p.movePieceRaw(pc, to, from)
		p.rawPut(rec.captured, to)

	case FlagEnPassant:
		pc := p.mailbox[to]
		p.movePieceRaw(pc, to, from)
		capSq := enPassantCaptureSquare(to, side)
		p.rawPut(rec.captured, capSq)

	case FlagKingCastle, FlagQueenCastle:
		pc := p.mailbox[to]
		p.movePieceRaw(pc, to, from)
		rf, rt := castlingRookMove(side, flag)
		p.movePieceRaw(MakePiece(side, Rook), rt, rf)

	default: // promotion, with or without capture
		p.rawRemove(p.mailbox[to], to)
		p.rawPut(MakePiece(side, Pawn), from)
		if flag.IsCapture() {
			p.rawPut(rec.captured, to)
		}
	}

	p.castlingRights = rec.castlingRights
	p.epSquare = rec.epSquare
	p.halfmoveClock = rec.halfmoveClock
	p.zobrist = rec.zobrist
}

// MakeNullMove passes the move to the opponent without moving a piece, used
// by null-move pruning during search. Must be paired with UnmakeNullMove.
func (p *Position) MakeNullMove() {
	rec := &p.history[p.ply]
	rec.move = NoMove
	rec.captured = NoPiece
	rec.castlingRights = p.castlingRights
	rec.epSquare = p.epSquare
	rec.halfmoveClock = p.halfmoveClock
	rec.zobrist = p.zobrist

	if p.epSquare != NoSquare {
		p.zobrist ^= zobristEnPassantFile(p.epSquare.File())
	}
	p.zobrist ^= zobristSide()

	p.epSquare = NoSquare
	p.halfmoveClock++
	p.ply++
	p.sideToMove = p.sideToMove.Opponent()
}

// UnmakeNullMove reverses the most recent MakeNullMove.
func (p *Position) UnmakeNullMove() {
	p.ply--
	rec := &p.history[p.ply]

	p.sideToMove = p.sideToMove.Opponent()
	p.castlingRights = rec.castlingRights
	p.epSquare = rec.epSquare
	p.halfmoveClock = rec.halfmoveClock
	p.zobrist = rec.zobrist
}

func (p *Position) String() string {
	return fmt.Sprintf("Position{side=%v castling=%v ep=%v halfmove=%v fullmove=%v zobrist=%x}",
		p.sideToMove, p.castlingRights, p.epSquare, p.halfmoveClock, p.fullmoveNumber, p.zobrist)
}
