package analytics

import "fmt"

// BeltOrder is the adult promotion ladder, lowest rank first.
var BeltOrder = []string{"white", "blue", "purple", "brown", "black", "red_black", "red"}

// MaxStripes is how many stripes a belt holds before the next belt is due.
const MaxStripes = 4

func nextBelt(belt string) string {
	for i, b := range BeltOrder {
		if b == belt && i+1 < len(BeltOrder) {
			return BeltOrder[i+1]
		}
	}
	return ""
}

// NextGoal renders a short hint for the member's next promotion step.
// Unknown belts and the top of the ladder get a generic message.
func NextGoal(belt string, stripes int) string {
	known := false
	for _, b := range BeltOrder {
		if b == belt {
			known = true
			break
		}
	}
	if !known {
		return "Keep training"
	}
	if stripes < MaxStripes {
		return fmt.Sprintf("Stripe %d on %s belt", stripes+1, belt)
	}
	if n := nextBelt(belt); n != "" {
		return fmt.Sprintf("Promotion to %s belt", n)
	}
	return "Keep training"
}
