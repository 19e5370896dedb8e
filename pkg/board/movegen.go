package board

// GenerateMoves appends all pseudo-legal moves for the side to move into l.
// Pseudo-legal means the king may be left in check; callers filter with
// IsLegal or generate-then-filter via LegalMoves.
func (p *Position) GenerateMoves(l *MoveList) {
	p.generatePawnMoves(l, false)
	p.generateKnightMoves(l, false)
	p.generateSlidingMoves(l, Bishop, false)
	p.generateSlidingMoves(l, Rook, false)
	p.generateSlidingMoves(l, Queen, false)
	p.generateKingMoves(l, false)
	p.generateCastlingMoves(l)
}

// GenerateCaptures appends all pseudo-legal captures into l (including en
// passant and capturing promotions), used by quiescence search. Non-capturing
// promotions are not generated.
func (p *Position) GenerateCaptures(l *MoveList) {
	p.generatePawnMoves(l, true)
	p.generateKnightMoves(l, true)
	p.generateSlidingMoves(l, Bishop, true)
	p.generateSlidingMoves(l, Rook, true)
	p.generateSlidingMoves(l, Queen, true)
	p.generateKingMoves(l, true)
}

// LegalMoves returns the subset of GenerateMoves that do not leave the
// mover's king in check.
func (p *Position) LegalMoves(l *MoveList) {
	var pseudo MoveList
	p.GenerateMoves(&pseudo)
	side := p.sideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i)
		p.MakeMove(m)
		if !p.InCheck(side) {
			l.Add(m)
		}
		p.UnmakeMove()
	}
}

// IsLegal returns true iff m does not leave the mover's king in check.
func (p *Position) IsLegal(m Move) bool {
	side := p.sideToMove
	p.MakeMove(m)
	legal := !p.InCheck(side)
	p.UnmakeMove()
	return legal
}

func (p *Position) generateKnightMoves(l *MoveList, capturesOnly bool) {
	side := p.sideToMove
	knights := p.pieceBB[MakePiece(side, Knight)]
	own := p.colorBB[side]
	enemy := p.colorBB[side.Opponent()]

	for knights != 0 {
		from := knights.PopLSB()
		targets := KnightAttacks(from) &^ own
		if capturesOnly {
			targets &= enemy
		}
		p.emitTargets(l, from, targets, enemy)
	}
}

func (p *Position) generateKingMoves(l *MoveList, capturesOnly bool) {
	side := p.sideToMove
	from := p.KingSquare(side)
	own := p.colorBB[side]
	enemy := p.colorBB[side.Opponent()]

	targets := KingAttacks(from) &^ own
	if capturesOnly {
		targets &= enemy
	}
	p.emitTargets(l, from, targets, enemy)
}

func (p *Position) generateSlidingMoves(l *MoveList, pt PieceType, capturesOnly bool) {
	side := p.sideToMove
	pieces := p.pieceBB[MakePiece(side, pt)]
	own := p.colorBB[side]
	enemy := p.colorBB[side.Opponent()]

	for pieces != 0 {
		from := pieces.PopLSB()
		targets := SlidingAttacks(pt, from, p.occupied) &^ own
		if capturesOnly {
			targets &= enemy
		}
		p.emitTargets(l, from, targets, enemy)
	}
}

// emitTargets appends one move per destination square, tagging captures.
func (p *Position) emitTargets(l *MoveList, from Square, targets, enemy Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		if enemy.IsSet(to) {
			l.Add(makeMove(from, to, FlagCapture))
		} else {
			l.Add(makeMove(from, to, FlagQuiet))
		}
	}
}

func (p *Position) generatePawnMoves(l *MoveList, capturesOnly bool) {
	side := p.sideToMove
	pawns := p.pieceBB[MakePiece(side, Pawn)]
	enemy := p.colorBB[side.Opponent()]

	var startRank, promoRank Rank
	var push func(Bitboard) Bitboard
	if side == White {
		startRank, promoRank = Rank2, Rank8
		push = shiftNorth
	} else {
		startRank, promoRank = Rank7, Rank1
		push = shiftSouth
	}

	for bb := pawns; bb != 0; {
		from := bb.PopLSB()

		if !capturesOnly {
			single := push(BitMask(from)) &^ p.occupied
			if single != 0 {
				to := single.LSB()
				p.addPawnMoves(l, from, to, to.Rank() == promoRank, false)

				if from.Rank() == startRank {
					double := push(single) &^ p.occupied
					if double != 0 {
						l.Add(makeMove(from, double.LSB(), FlagDoublePush))
					}
				}
			}
		}

		captures := PawnAttacks(side, from) & enemy
		for captures != 0 {
			to := captures.PopLSB()
			p.addPawnMoves(l, from, to, to.Rank() == promoRank, true)
		}

		if ep, ok := p.EnPassant(); ok && PawnAttacks(side, from).IsSet(ep) {
			l.Add(makeMove(from, ep, FlagEnPassant))
		}
	}
}

func (p *Position) addPawnMoves(l *MoveList, from, to Square, promotes, capture bool) {
	if !promotes {
		if capture {
			l.Add(makeMove(from, to, FlagCapture))
		} else {
			l.Add(makeMove(from, to, FlagQuiet))
		}
		return
	}
	for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
		l.Add(makeMove(from, to, promotionFlag(pt, capture)))
	}
}

// castling square/path constants, indexed by [side][kingside?0:1].
var (
	castlingKingFrom  = [NumColors]Square{E1, E8}
	castlingKingTo    = [NumColors][2]Square{{G1, C1}, {G8, C8}}
	castlingEmptyPath = [NumColors][2]Bitboard{
		{BitMask(F1) | BitMask(G1), BitMask(B1) | BitMask(C1) | BitMask(D1)},
		{BitMask(F8) | BitMask(G8), BitMask(B8) | BitMask(C8) | BitMask(D8)},
	}
	// castlingCheckPath lists every square the king transits, origin through
	// landing square inclusive; none may be attacked for castling to be legal.
	castlingCheckPath = [NumColors][2][3]Square{
		{{E1, F1, G1}, {E1, D1, C1}},
		{{E8, F8, G8}, {E8, D8, C8}},
	}
	castlingRights = [NumColors][2]Castling{
		{WhiteKingside, WhiteQueenside},
		{BlackKingside, BlackQueenside},
	}
)

// generateCastlingMoves appends legal castling moves. All three conditions
// are checked here (not left to the legality filter) since the squares the
// king passes through, not just its origin and destination, must be safe.
func (p *Position) generateCastlingMoves(l *MoveList) {
	side := p.sideToMove
	opp := side.Opponent()
	from := castlingKingFrom[side]

	for side2 := 0; side2 < 2; side2++ {
		right := castlingRights[side][side2]
		if !p.castlingRights.Has(right) {
			continue
		}
		if p.occupied&castlingEmptyPath[side][side2] != 0 {
			continue
		}
		attacked := false
		for _, sq := range castlingCheckPath[side][side2] {
			if p.IsSquareAttacked(sq, opp) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}

		to := castlingKingTo[side][side2]
		flag := FlagKingCastle
		if side2 == 1 {
			flag = FlagQueenCastle
		}
		l.Add(makeMove(from, to, flag))
	}
}
