// Package tournament enumerates battles over a warrior pool, runs them
// on a bounded worker pool and aggregates outcomes into standings.
package tournament

import (
	"sort"

	"go.creack.net/melee/vm"
)

// UnitKind enum type.
type UnitKind int

// UnitKind values.
const (
	Solo UnitKind = iota
	Team
	Zombie
)

func (uk UnitKind) String() string {
	switch uk {
	case Solo:
		return "solo"
	case Team:
		return "team"
	case Zombie:
		return "zombie"
	default:
		return "unknown unit kind"
	}
}

// Unit is one combinable participant: a lone warrior, a whole team
// entering battles together, or a zombie joining every battle without
// counting toward the combination size.
type Unit struct {
	Kind    UnitKind
	Name    string
	Members []*vm.Warrior
}

// BuildUnits groups a warrior pool into combinable units. Warriors
// sharing a team name form one Team unit; zombies each form a Zombie
// unit regardless of team. Output order is deterministic: units sorted
// by name.
func BuildUnits(pool []*vm.Warrior) []Unit {
	var units []Unit
	teams := map[string]int{} // Team name -> index in units.
	for _, w := range pool {
		switch {
		case w.Zombie:
			units = append(units, Unit{Kind: Zombie, Name: w.Name, Members: []*vm.Warrior{w}})
		case w.Team != "":
			i, ok := teams[w.Team]
			if !ok {
				i = len(units)
				teams[w.Team] = i
				units = append(units, Unit{Kind: Team, Name: w.Team})
			}
			units[i].Members = append(units[i].Members, w)
		default:
			units = append(units, Unit{Kind: Solo, Name: w.Name, Members: []*vm.Warrior{w}})
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units
}

// Fighters returns the non-zombie units, the ones combinations are
// drawn over.
func Fighters(units []Unit) []Unit {
	var out []Unit
	for _, u := range units {
		if u.Kind != Zombie {
			out = append(out, u)
		}
	}
	return out
}

// Zombies returns every zombie warrior in the pool; they join every
// battle.
func Zombies(units []Unit) []*vm.Warrior {
	var out []*vm.Warrior
	for _, u := range units {
		if u.Kind == Zombie {
			out = append(out, u.Members...)
		}
	}
	return out
}

// Combinations returns every k-subset of [0, n) in lexicographic
// order. The caller is expected to have checked k <= n.
func Combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		out = append(out, append([]int(nil), idx...))
		// Advance to the next combination.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
