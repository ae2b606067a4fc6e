package blackjack

// Results computes the payout of a finished round. The main outcome is an
// ordered rule list where the first match wins; the insurance side bet is
// added on top.
//
// A player 21 wins even when the dealer also has 21 (there is no push for a
// tie at 21), and a doubled 21 pays 3x the bet.
func Results(bet float64, insuranceTaken bool, dealerTotal, playerTotal int, doubled bool) float64 {
	total := 0.0

	if insuranceTaken {
		if dealerTotal == 21 {
			total += bet / 2
		} else {
			total -= bet / 2
		}
	}

	switch {
	case playerTotal == 21 && doubled:
		total += 3 * bet
	case playerTotal == 21:
		total += 1.5 * bet
	case playerTotal > 21 && doubled:
		total -= 2 * bet
	case playerTotal > 21:
		total -= bet
	case dealerTotal > 21 && doubled:
		total += 2 * bet
	case dealerTotal > 21:
		total += bet
	case dealerTotal > playerTotal && doubled:
		total -= 2 * bet
	case dealerTotal < playerTotal && doubled:
		total += 2 * bet
	case dealerTotal > playerTotal:
		total -= bet
	case dealerTotal < playerTotal:
		total += bet
	}

	return total
}
