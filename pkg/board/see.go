package board

// seeValue gives the material value used by the static exchange evaluator.
// These are standard centipawn approximations, not the full evaluation.
var seeValue = [NumPieceTypes]int32{
	Pawn:   100,
	Knight: 320,
	Bishop: 330,
	Rook:   500,
	Queen:  900,
	King:   20000,
}

// SEE evaluates the static exchange on m's destination square: the net
// material gain of playing the capture (or promotion) and letting both sides
// trade off the least valuable attacker first, until one side stops. Returns
// a score from the mover's perspective; >= 0 means the exchange is not a
// material loss for the mover.
func (p *Position) SEE(m Move) int32 {
	from, to, flag := m.From(), m.To(), m.Flag()
	if !flag.IsCapture() && !flag.IsPromotion() {
		return 0
	}

	var gain [32]int32
	depth := 0

	attacker := p.mailbox[from].Type()
	var captured PieceType
	switch {
	case flag == FlagEnPassant:
		captured = Pawn
	case flag.IsCapture():
		captured = p.mailbox[to].Type()
	default:
		captured = 0 // non-capturing promotion
	}
	gain[depth] = seeValue[captured]

	if flag.IsPromotion() {
		promo := flag.PromotionPiece()
		gain[depth] += seeValue[promo] - seeValue[Pawn]
		attacker = promo
	}

	occupied := p.occupied &^ BitMask(from)
	if flag == FlagEnPassant {
		occupied &^= BitMask(enPassantCaptureSquare(to, p.sideToMove))
	}

	side := p.sideToMove.Opponent()
	colorBB := [NumColors]Bitboard{p.colorBB[White], p.colorBB[Black]}
	colorBB[p.sideToMove] &^= BitMask(from)

	for {
		attackers := p.attackersGivenOccupancy(to, occupied) & colorBB[side]
		if attackers == 0 {
			break
		}

		lva, lvaType := p.leastValuableAttacker(attackers, occupied)
		if lva == NoSquare {
			break
		}

		depth++
		gain[depth] = seeValue[attacker] - gain[depth-1]

		occupied &^= BitMask(lva)
		colorBB[side] &^= BitMask(lva)
		attacker = lvaType
		side = side.Opponent()

		if depth >= len(gain)-1 {
			break
		}
	}

	for depth > 0 {
		if -gain[depth] < gain[depth-1] {
			gain[depth-1] = -gain[depth]
		}
		depth--
	}
	return gain[0]
}

// attackersGivenOccupancy recomputes attackers to sq using an occupancy that
// may differ from the live position (pieces removed during the SEE unwind).
func (p *Position) attackersGivenOccupancy(sq Square, occupied Bitboard) Bitboard {
	var attackers Bitboard
	attackers |= PawnAttacks(Black, sq) & p.pieceBB[WhitePawn]
	attackers |= PawnAttacks(White, sq) & p.pieceBB[BlackPawn]
	attackers |= KnightAttacks(sq) & (p.pieceBB[WhiteKnight] | p.pieceBB[BlackKnight])
	attackers |= KingAttacks(sq) & (p.pieceBB[WhiteKing] | p.pieceBB[BlackKing])
	bishops := (p.pieceBB[WhiteBishop] | p.pieceBB[BlackBishop] | p.pieceBB[WhiteQueen] | p.pieceBB[BlackQueen]) & occupied
	attackers |= BishopAttacks(sq, occupied) & bishops
	rooks := (p.pieceBB[WhiteRook] | p.pieceBB[BlackRook] | p.pieceBB[WhiteQueen] | p.pieceBB[BlackQueen]) & occupied
	attackers |= RookAttacks(sq, occupied) & rooks
	return attackers & occupied
}

// leastValuableAttacker picks the cheapest piece among attackers (which must
// all belong to the side to recapture).
func (p *Position) leastValuableAttacker(attackers Bitboard, occupied Bitboard) (Square, PieceType) {
	best := NoSquare
	bestType := PieceType(NumPieceTypes)
	for bb := attackers; bb != 0; {
		sq := bb.PopLSB()
		pt := p.mailbox[sq].Type()
		if pt < bestType {
			best = sq
			bestType = pt
		}
	}
	return best, bestType
}
