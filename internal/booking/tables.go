package booking

import "restaurant_reservation/internal/domain"

// AssignTable picks the lowest free table number for a slot given the
// reservations already holding it.
func AssignTable(existing []domain.Reservation, totalTables int) (int, error) {
	if len(existing) >= totalTables {
		return 0, ErrSlotFull
	}
	occupied := make(map[int]struct{}, len(existing))
	for _, r := range existing {
		occupied[r.TableNumber] = struct{}{}
	}
	for t := 1; t <= totalTables; t++ {
		if _, taken := occupied[t]; !taken {
			return t, nil
		}
	}
	return 0, ErrNoTableAvailable
}

// FreeTables lists every unoccupied table number in ascending order.
func FreeTables(existing []domain.Reservation, totalTables int) []int {
	occupied := make(map[int]struct{}, len(existing))
	for _, r := range existing {
		occupied[r.TableNumber] = struct{}{}
	}
	free := make([]int, 0, totalTables)
	for t := 1; t <= totalTables; t++ {
		if _, taken := occupied[t]; !taken {
			free = append(free, t)
		}
	}
	return free
}
